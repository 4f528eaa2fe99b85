package models

import "time"

// CrawlParams captures the inputs of one batch run over listing pages.
type CrawlParams struct {
	ListingURL string
	Pages      int
	PerPage    int
}

// FetchOptions contains runtime options shared by fetches and store calls.
type FetchOptions struct {
	FetchTimeout time.Duration
	StoreTimeout time.Duration
	Retries      int
	Delay        time.Duration
}
