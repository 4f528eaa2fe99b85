package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/jobfeed/internal/models"
	"github.com/jimezsa/jobfeed/internal/record"
	"github.com/jimezsa/jobfeed/internal/scraper"
	"github.com/jimezsa/jobfeed/internal/store"
	"github.com/jimezsa/jobfeed/internal/taxonomy"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultStoreTimeout = 15 * time.Second
)

var ErrNoLister = errors.New("site has no listing pages")

// Config wires the pipeline stages together.
type Config struct {
	Fetcher    scraper.Fetcher
	Extractors []scraper.Extractor
	Resolver   *taxonomy.Resolver
	Normalizer *taxonomy.Normalizer
	Builder    *record.Builder
	// Persister may be nil for dry runs.
	Persister *store.Persister
	Identity  record.Identity
	Options   models.FetchOptions
	DryRun    bool
	Logger    zerolog.Logger
}

// Pipeline turns detail URLs into persisted job records. Items are
// processed one at a time; a failing item never stops a batch.
type Pipeline struct {
	fetcher    scraper.Fetcher
	extractors []scraper.Extractor
	resolver   *taxonomy.Resolver
	normalizer *taxonomy.Normalizer
	builder    *record.Builder
	persister  *store.Persister
	identity   record.Identity
	opts       models.FetchOptions
	dryRun     bool
	limiter    *rate.Limiter
	log        zerolog.Logger
}

func New(cfg Config) (*Pipeline, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("pipeline: fetcher is required")
	}
	if cfg.Resolver == nil || cfg.Normalizer == nil {
		return nil, fmt.Errorf("pipeline: taxonomy is required")
	}
	if cfg.Persister == nil && !cfg.DryRun {
		return nil, fmt.Errorf("pipeline: persister is required unless dry run")
	}
	if cfg.Extractors == nil {
		cfg.Extractors = scraper.Registry()
	}
	if cfg.Builder == nil {
		cfg.Builder = record.NewBuilder()
	}

	opts := cfg.Options
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = DefaultStoreTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}

	var limiter *rate.Limiter
	if opts.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.Delay), 1)
	}

	persister := cfg.Persister
	if persister != nil {
		persister = persister.WithTimeout(opts.StoreTimeout)
	}

	return &Pipeline{
		fetcher:    cfg.Fetcher,
		extractors: cfg.Extractors,
		resolver:   cfg.Resolver,
		normalizer: cfg.Normalizer,
		builder:    cfg.Builder,
		persister:  persister,
		identity:   cfg.Identity,
		opts:       opts,
		dryRun:     cfg.DryRun,
		limiter:    limiter,
		log:        cfg.Logger,
	}, nil
}

// ProcessURL runs one detail page through every stage.
func (p *Pipeline) ProcessURL(ctx context.Context, target string) Outcome {
	outcome := p.process(ctx, target)

	var event *zerolog.Event
	if outcome.Err != nil {
		event = p.log.Warn().Err(outcome.Err)
	} else {
		event = p.log.Info()
	}
	event.
		Str("url", outcome.URL).
		Str("site", outcome.Site).
		Str("title", outcome.Record.Title).
		Str("category", outcome.Record.Category).
		Str("status", string(outcome.Status)).
		Str("id", outcome.ID).
		Msg("processed listing")

	return outcome
}

func (p *Pipeline) process(ctx context.Context, target string) Outcome {
	outcome := Outcome{URL: target}

	extractor, err := scraper.ForURL(p.extractors, target)
	if err != nil {
		outcome.Status = StatusRejected
		outcome.Err = err
		return outcome
	}
	outcome.Site = extractor.Name()

	doc, err := p.fetch(ctx, target)
	if err != nil {
		outcome.Status = StatusFetchFailed
		outcome.Err = err
		return outcome
	}

	extracted := extractor.Extract(doc)
	if extracted.URL == "" {
		extracted.URL = target
	}

	outcome.Match = p.resolver.Explain(
		extracted.Info.Get(models.LabelJobArea),
		extracted.Info.Get(models.LabelPosition),
	)
	workType := p.normalizer.Normalize(extracted.Info.Get(models.LabelWorkType))

	rec, err := p.builder.Build(extracted, record.Classification{
		Category:    outcome.Match.Category,
		SubCategory: outcome.Match.SubCategory,
	}, workType, p.identity)
	if err != nil {
		outcome.Status = StatusRejected
		outcome.Record.Title = extracted.Title
		outcome.Err = err
		return outcome
	}
	outcome.Record = rec

	if p.dryRun {
		outcome.Status = StatusCollected
		return outcome
	}

	result, err := p.persister.Persist(ctx, rec)
	if err != nil {
		outcome.Status = StatusStoreFailed
		outcome.Err = err
		return outcome
	}
	outcome.ID = result.ID
	if result.Status == store.StatusSkipped {
		outcome.Status = StatusSkipped
	} else {
		outcome.Status = StatusInserted
	}
	return outcome
}

// fetch loads target, retrying timeouts and transient failures up to the
// configured count. Each attempt has its own timeout and waits for the
// rate limiter.
func (p *Pipeline) fetch(ctx context.Context, target string) (*goquery.Document, error) {
	var lastErr error
	for attempt := 0; attempt <= p.opts.Retries; attempt++ {
		if err := p.wait(ctx); err != nil {
			return nil, err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, p.opts.FetchTimeout)
		doc, err := p.fetcher.Fetch(attemptCtx, target)
		cancel()
		if err == nil {
			return doc, nil
		}

		lastErr = err
		if ctx.Err() != nil || !scraper.IsRetryable(err) {
			break
		}
		p.log.Debug().Err(err).Str("url", target).Int("attempt", attempt+1).Msg("fetch failed, retrying")
	}
	return nil, fmt.Errorf("fetch %s: %w", target, lastErr)
}

func (p *Pipeline) wait(ctx context.Context) error {
	if p.limiter == nil {
		return ctx.Err()
	}
	return p.limiter.Wait(ctx)
}
