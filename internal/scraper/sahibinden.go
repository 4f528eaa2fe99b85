package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/jobfeed/internal/models"
)

const (
	sahibindenBase     = "https://www.sahibinden.com"
	sahibindenPageSize = 20

	// DefaultTitle is used when a detail page has no title node.
	DefaultTitle = "İş İlanı"
)

// Sahibinden extracts classified job ads from sahibinden.com detail pages.
type Sahibinden struct{}

func NewSahibinden() *Sahibinden {
	return &Sahibinden{}
}

func (s *Sahibinden) Name() string {
	return SiteSahibinden
}

func (s *Sahibinden) Match(u *url.URL) bool {
	return hostMatches(u, "sahibinden.com")
}

func (s *Sahibinden) Extract(doc *goquery.Document) models.Extracted {
	out := models.Extracted{
		Site:  SiteSahibinden,
		Title: DefaultTitle,
		Info:  models.JobInfo{},
	}
	if doc == nil {
		return out
	}

	if title, ok := selectionText(doc, ".classifiedDetailTitle h1"); ok && title != "" {
		out.Title = title
	}
	out.Description, _ = selectionText(doc, "#classifiedDescription")

	doc.Find(".classifiedInfoList li").Each(func(_ int, item *goquery.Selection) {
		label := item.Find("strong").First()
		value := item.Find("span").First()
		if label.Length() == 0 || value.Length() == 0 {
			return
		}
		key := CleanText(label.Text())
		if key == "" {
			return
		}
		out.Info[key] = CleanText(value.Text())
	})

	out.Company, _ = selectionText(doc, ".storeBox.storeNoLogo p")
	out.Phone, _ = selectionText(doc, "#phoneInfoPart span.pretty-phone-part.show-part span")
	return out
}

// ListingPage returns the URL of the given 1-based result page.
func (s *Sahibinden) ListingPage(base string, page int) string {
	if page <= 1 {
		return base
	}
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	query := u.Query()
	query.Set("pagingOffset", fmt.Sprintf("%d", sahibindenPageSize*(page-1)))
	u.RawQuery = query.Encode()
	return u.String()
}

// ListingURLs returns the absolute detail links of a result page in
// document order without duplicates.
func (s *Sahibinden) ListingURLs(doc *goquery.Document, base string) []string {
	if doc == nil {
		return nil
	}
	if base == "" {
		base = sahibindenBase
	}

	var links []string
	seen := map[string]struct{}{}
	add := func(href string) {
		link := absoluteURL(base, strings.TrimSpace(href))
		if link == "" {
			return
		}
		if _, ok := seen[link]; ok {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	}

	doc.Find(".searchResultsItem a.classifiedTitle").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			add(href)
		}
	})
	doc.Find("td.searchResultsTitleValue a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if ok && strings.Contains(href, "/ilan/") {
			add(href)
		}
	})

	return links
}
