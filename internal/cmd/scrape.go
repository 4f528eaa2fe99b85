package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jimezsa/jobfeed/internal/pipeline"
)

var errAllFailed = errors.New("no listing could be processed")

type ScrapeCmd struct {
	URLs    []string `arg:"" name:"url" help:"Listing detail page URLs."`
	Phone   string   `help:"Contact phone stamped on every record (5XXXXXXXXX)."`
	DryRun  bool     `help:"Build records without writing them to the store."`
	Proxies string   `help:"Comma-separated proxy URLs." env:"JOBFEED_PROXIES"`
	OutputOptions
}

func (s *ScrapeCmd) Run(ctx *Context) error {
	runCtx, cancel := ctx.signalContext()
	defer cancel()

	p, closeStore, err := ctx.buildPipeline(runCtx, pipelineOptions{
		DryRun:  s.DryRun,
		Phone:   strings.TrimSpace(s.Phone),
		Proxies: s.Proxies,
	})
	if err != nil {
		return err
	}
	defer closeStore()

	var outcomes []pipeline.Outcome
	seen := make(map[string]struct{}, len(s.URLs))
	for _, raw := range s.URLs {
		target := strings.TrimSpace(raw)
		if target == "" {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		if runCtx.Err() != nil {
			break
		}
		outcomes = append(outcomes, p.ProcessURL(runCtx, target))
	}

	reportOutcomes(ctx, outcomes)

	if err := writeRecords(ctx, s.OutputOptions, outcomeRecords(outcomes)); err != nil {
		return err
	}

	failed := 0
	for _, outcome := range outcomes {
		if !outcome.HasRecord() || outcome.Status == pipeline.StatusStoreFailed {
			failed++
		}
	}
	if len(outcomes) > 0 && failed == len(outcomes) {
		return fmt.Errorf("%w (%d urls)", errAllFailed, failed)
	}
	return nil
}
