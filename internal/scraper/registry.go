package scraper

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	SiteSahibinden = "sahibinden"
	SiteJSONLD     = "jsonld"
)

// Registry returns the known extractors in match order. The JSON-LD
// extractor accepts any host and therefore comes last.
func Registry() []Extractor {
	return []Extractor{
		NewSahibinden(),
		NewJSONLD(),
	}
}

// ForURL returns the first extractor that accepts raw.
func ForURL(extractors []Extractor, raw string) (Extractor, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url %q: scheme must be http or https", raw)
	}
	for _, extractor := range extractors {
		if extractor.Match(u) {
			return extractor, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoExtractor, raw)
}

// ByName returns the extractor registered under name.
func ByName(extractors []Extractor, name string) (Extractor, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, extractor := range extractors {
		if extractor.Name() == name {
			return extractor, true
		}
	}
	return nil, false
}

func hostMatches(u *url.URL, domain string) bool {
	if u == nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	return host == domain || strings.HasSuffix(host, "."+domain)
}
