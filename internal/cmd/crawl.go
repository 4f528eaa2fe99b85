package cmd

import (
	"context"
	"strings"
	"time"

	"github.com/jimezsa/jobfeed/internal/models"
	"github.com/jimezsa/jobfeed/internal/pipeline"
	"github.com/jimezsa/jobfeed/internal/schedule"
)

type CrawlCmd struct {
	ListingURL string        `arg:"" optional:"" name:"listing-url" help:"Listing page URL (default: listing_url from config)."`
	Pages      int           `help:"Number of listing pages to walk (default: pages from config)."`
	PerPage    int           `name:"per-page" help:"Maximum listings taken from each page (0 = all)."`
	DryRun     bool          `help:"Build records without writing them to the store."`
	Every      time.Duration `help:"Repeat the crawl on this interval until interrupted, e.g. 6h."`
	Proxies    string        `help:"Comma-separated proxy URLs." env:"JOBFEED_PROXIES"`
	OutputOptions
}

func (c *CrawlCmd) params(cfg models.CrawlParams) models.CrawlParams {
	if url := strings.TrimSpace(c.ListingURL); url != "" {
		cfg.ListingURL = url
	}
	if c.Pages > 0 {
		cfg.Pages = c.Pages
	}
	if c.PerPage > 0 {
		cfg.PerPage = c.PerPage
	}
	return cfg
}

func (c *CrawlCmd) Run(ctx *Context) error {
	runCtx, cancel := ctx.signalContext()
	defer cancel()

	p, closeStore, err := ctx.buildPipeline(runCtx, pipelineOptions{
		DryRun:  c.DryRun,
		Proxies: c.Proxies,
	})
	if err != nil {
		return err
	}
	defer closeStore()

	params := c.params(models.CrawlParams{
		ListingURL: ctx.Config.ListingURL,
		Pages:      ctx.Config.Pages,
		PerPage:    ctx.Config.PerPage,
	})

	if c.Every <= 0 {
		return c.crawlOnce(runCtx, ctx, p, params)
	}

	scheduler, err := schedule.New(c.Every, func(jobCtx context.Context) {
		if err := c.crawlOnce(jobCtx, ctx, p, params); err != nil {
			ctx.UI.Errorf("crawl: %v", err)
		}
	}, ctx.Logger)
	if err != nil {
		return err
	}
	ctx.UI.Notef("crawling %s %s; press Ctrl-C to stop", params.ListingURL, scheduler.Spec())
	return scheduler.Run(runCtx)
}

func (c *CrawlCmd) crawlOnce(runCtx context.Context, ctx *Context, p *pipeline.Pipeline, params models.CrawlParams) error {
	stop := ctx.UI.Spinner("Crawling")
	report, err := p.Crawl(runCtx, params)
	stop()
	if err != nil {
		return err
	}

	for _, pageErr := range report.PageErrors {
		ctx.UI.Warnf("page %d (%s): %v", pageErr.Page, pageErr.URL, pageErr.Err)
	}
	reportOutcomes(ctx, report.Outcomes)
	ctx.UI.Notef("pages=%d found=%d cancelled=%t", report.Pages, report.Found, report.Cancelled)

	if c.Output == "" && !c.DryRun && c.Format == "" && !ctx.JSONOutput && !ctx.PlainText {
		return nil
	}
	return writeRecords(ctx, c.OutputOptions, outcomeRecords(report.Outcomes))
}
