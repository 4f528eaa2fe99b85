package cmd

import (
	"github.com/jimezsa/jobfeed/internal/export"
	"github.com/jimezsa/jobfeed/internal/models"
	"github.com/jimezsa/jobfeed/internal/pipeline"
)

var statusOrder = []string{
	string(pipeline.StatusInserted),
	string(pipeline.StatusSkipped),
	string(pipeline.StatusCollected),
	string(pipeline.StatusRejected),
	string(pipeline.StatusFetchFailed),
	string(pipeline.StatusStoreFailed),
}

func outcomeRecords(outcomes []pipeline.Outcome) []models.StoredRecord {
	records := make([]models.StoredRecord, 0, len(outcomes))
	for _, outcome := range outcomes {
		if !outcome.HasRecord() {
			continue
		}
		records = append(records, models.StoredRecord{ID: outcome.ID, Record: outcome.Record})
	}
	return records
}

func formatSummary(outcomes []pipeline.Outcome) string {
	counts := make(map[string]int, len(statusOrder))
	for _, outcome := range outcomes {
		counts[string(outcome.Status)]++
	}
	return "summary: " + export.Summary(counts, statusOrder)
}

// reportOutcomes prints one line per outcome to stderr.
func reportOutcomes(ctx *Context, outcomes []pipeline.Outcome) {
	if ctx.UI == nil {
		return
	}
	for _, outcome := range outcomes {
		status := ctx.UI.StatusText(string(outcome.Status))
		switch {
		case outcome.Err != nil:
			ctx.UI.Notef("%s %s: %v", status, outcome.URL, outcome.Err)
		case outcome.ID != "":
			ctx.UI.Notef("%s %s (%s) %s", status, outcome.Record.Title, outcome.ID, outcome.URL)
		default:
			ctx.UI.Notef("%s %s %s", status, outcome.Record.Title, outcome.URL)
		}
	}
	ctx.UI.Notef("%s", formatSummary(outcomes))
}
