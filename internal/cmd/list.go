package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/jobfeed/internal/models"
	"github.com/jimezsa/jobfeed/internal/store"
)

type ListCmd struct {
	Duplicates bool `help:"Report records that share a title instead of listing them."`
	OutputOptions
}

func (l *ListCmd) Run(ctx *Context) error {
	records, err := listRecords(ctx)
	if err != nil {
		return err
	}
	if l.Duplicates {
		return writeDuplicates(ctx, records)
	}
	return writeRecords(ctx, l.OutputOptions, records)
}

func listRecords(ctx *Context) ([]models.StoredRecord, error) {
	runCtx, cancel := ctx.signalContext()
	defer cancel()

	s, err := ctx.openStore(runCtx)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	records, err := s.List(runCtx, store.CollectionJobs)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

func writeDuplicates(ctx *Context, records []models.StoredRecord) error {
	groups, stats := store.Duplicates(records)

	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Stats  store.DuplicateStats   `json:"stats"`
			Groups []store.DuplicateGroup `json:"groups"`
		}{stats, groups})
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "title\tcount\tids")
	for _, group := range groups {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", group.Title, len(group.Records), groupIDs(group))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(
		ctx.Err,
		"total=%d untitled=%d unique_titles=%d duplicate_groups=%d redundant=%d\n",
		stats.Total,
		stats.Untitled,
		stats.UniqueKeys,
		stats.Groups,
		stats.Redundant,
	)
	return err
}

func groupIDs(group store.DuplicateGroup) string {
	ids := make([]string, 0, len(group.Records))
	for _, stored := range group.Records {
		ids = append(ids, stored.ID)
	}
	return strings.Join(ids, ",")
}
