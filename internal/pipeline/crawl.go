package pipeline

import (
	"context"
	"fmt"

	"github.com/jimezsa/jobfeed/internal/models"
	"github.com/jimezsa/jobfeed/internal/scraper"
)

// Crawl walks params.Pages listing pages, collecting detail links, then
// processes every link in order. Page and item failures are recorded in
// the report; only an unusable listing URL is returned as an error.
// Cancellation is honoured between fetches.
func (p *Pipeline) Crawl(ctx context.Context, params models.CrawlParams) (Report, error) {
	report := Report{ListingURL: params.ListingURL}

	extractor, err := scraper.ForURL(p.extractors, params.ListingURL)
	if err != nil {
		return report, err
	}
	lister, ok := extractor.(scraper.Lister)
	if !ok {
		return report, fmt.Errorf("%w: %s", ErrNoLister, extractor.Name())
	}

	pages := params.Pages
	if pages <= 0 {
		pages = 1
	}

	links := p.collect(ctx, lister, params, pages, &report)
	report.Found = len(links)
	p.log.Info().
		Str("listing", params.ListingURL).
		Int("pages", report.Pages).
		Int("found", report.Found).
		Msg("collected listing links")

	for _, link := range links {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}
		report.Outcomes = append(report.Outcomes, p.ProcessURL(ctx, link))
	}
	if ctx.Err() != nil {
		report.Cancelled = true
	}

	p.log.Info().
		Int("inserted", report.Count(StatusInserted)).
		Int("skipped", report.Count(StatusSkipped)).
		Int("collected", report.Count(StatusCollected)).
		Int("failed", report.Failed()).
		Bool("cancelled", report.Cancelled).
		Msg("crawl finished")

	return report, nil
}

func (p *Pipeline) collect(ctx context.Context, lister scraper.Lister, params models.CrawlParams, pages int, report *Report) []string {
	var links []string
	seen := map[string]struct{}{}

	for page := 1; page <= pages; page++ {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}

		pageURL := lister.ListingPage(params.ListingURL, page)
		doc, err := p.fetch(ctx, pageURL)
		if err != nil {
			report.PageErrors = append(report.PageErrors, PageError{Page: page, URL: pageURL, Err: err})
			p.log.Warn().Err(err).Int("page", page).Str("url", pageURL).Msg("listing page failed")
			continue
		}
		report.Pages++

		pageLinks := lister.ListingURLs(doc, params.ListingURL)
		if params.PerPage > 0 && len(pageLinks) > params.PerPage {
			pageLinks = pageLinks[:params.PerPage]
		}
		if len(pageLinks) == 0 {
			p.log.Debug().Int("page", page).Msg("listing page has no links, stopping")
			break
		}

		for _, link := range pageLinks {
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}
			links = append(links, link)
		}
	}

	return links
}
