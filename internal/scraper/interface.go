package scraper

import (
	"context"
	"errors"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/jobfeed/internal/models"
)

var ErrNoExtractor = errors.New("no extractor for url")

// Extractor pulls the semi-structured fields of one listing out of a parsed
// detail page. Extract never fails: missing nodes degrade to defaults.
type Extractor interface {
	Name() string
	Match(u *url.URL) bool
	Extract(doc *goquery.Document) models.Extracted
}

// Lister is implemented by extractors whose site exposes paginated listing
// pages that link to detail pages.
type Lister interface {
	ListingPage(base string, page int) string
	ListingURLs(doc *goquery.Document, base string) []string
}

// Fetcher loads and parses a document.
type Fetcher interface {
	Fetch(ctx context.Context, target string) (*goquery.Document, error)
}
