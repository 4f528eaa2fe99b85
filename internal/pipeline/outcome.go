package pipeline

import (
	"github.com/jimezsa/jobfeed/internal/models"
	"github.com/jimezsa/jobfeed/internal/taxonomy"
)

type Status string

const (
	StatusInserted    Status = "inserted"
	StatusSkipped     Status = "skipped"
	StatusCollected   Status = "collected"
	StatusRejected    Status = "rejected"
	StatusFetchFailed Status = "fetch_failed"
	StatusStoreFailed Status = "store_failed"
)

// Outcome is the result of processing one detail URL.
type Outcome struct {
	URL    string
	Site   string
	Status Status
	ID     string
	Record models.JobRecord
	Match  taxonomy.Match
	Err    error
}

// HasRecord reports whether a record was built for the URL.
func (o Outcome) HasRecord() bool {
	switch o.Status {
	case StatusInserted, StatusSkipped, StatusCollected, StatusStoreFailed:
		return true
	}
	return false
}

// PageError records a listing page that could not be fetched.
type PageError struct {
	Page int
	URL  string
	Err  error
}

// Report summarises a crawl.
type Report struct {
	ListingURL string
	Pages      int
	Found      int
	Outcomes   []Outcome
	PageErrors []PageError
	Cancelled  bool
}

// Count returns the number of outcomes with status.
func (r Report) Count(status Status) int {
	n := 0
	for _, outcome := range r.Outcomes {
		if outcome.Status == status {
			n++
		}
	}
	return n
}

// Records returns the records built during the crawl, in processing order.
func (r Report) Records() []models.JobRecord {
	var out []models.JobRecord
	for _, outcome := range r.Outcomes {
		if outcome.HasRecord() {
			out = append(out, outcome.Record)
		}
	}
	return out
}

// Failed returns the number of outcomes that did not produce a stored or
// collected record.
func (r Report) Failed() int {
	return r.Count(StatusRejected) + r.Count(StatusFetchFailed) + r.Count(StatusStoreFailed)
}
