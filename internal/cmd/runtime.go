package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jimezsa/jobfeed/internal/config"
	"github.com/jimezsa/jobfeed/internal/network"
	"github.com/jimezsa/jobfeed/internal/pipeline"
	"github.com/jimezsa/jobfeed/internal/record"
	"github.com/jimezsa/jobfeed/internal/scraper"
	"github.com/jimezsa/jobfeed/internal/store"
	"github.com/jimezsa/jobfeed/internal/taxonomy"
)

const proxyBanDuration = 10 * time.Minute

type pipelineOptions struct {
	DryRun  bool
	Phone   string
	Proxies string
}

// buildPipeline wires taxonomy, fetcher and store into a pipeline. The
// returned close func releases the store.
func (c *Context) buildPipeline(ctx context.Context, opts pipelineOptions) (*pipeline.Pipeline, func() error, error) {
	noop := func() error { return nil }

	cfg := c.Config
	if err := cfg.RequireOwner(); err != nil {
		return nil, noop, err
	}
	identity := cfg.Identity()
	if opts.Phone != "" {
		if !record.ValidPhone(opts.Phone) {
			return nil, noop, fmt.Errorf("%w: %q", record.ErrInvalidPhone, opts.Phone)
		}
		identity.ContactPhone = opts.Phone
	}

	resolver, normalizer, err := loadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		return nil, noop, err
	}

	fetcher, err := c.fetcher(opts.Proxies)
	if err != nil {
		return nil, noop, err
	}

	var persister *store.Persister
	closeStore := noop
	if !opts.DryRun {
		s, err := c.openStore(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("open store: %w", err)
		}
		persister = store.NewPersister(s)
		closeStore = s.Close
	}

	p, err := pipeline.New(pipeline.Config{
		Fetcher:    fetcher,
		Resolver:   resolver,
		Normalizer: normalizer,
		Persister:  persister,
		Identity:   identity,
		Options:    cfg.FetchOptions(),
		DryRun:     opts.DryRun,
		Logger:     c.Logger,
	})
	if err != nil {
		closeStore()
		return nil, noop, err
	}
	return p, closeStore, nil
}

func (c *Context) fetcher(proxiesFlag string) (scraper.Fetcher, error) {
	if c.Fetcher != nil {
		return c.Fetcher, nil
	}

	proxies, err := config.LoadProxies(proxiesFlag)
	if err != nil {
		return nil, err
	}
	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, proxyBanDuration)
		if err != nil {
			return nil, err
		}
	}

	client, err := network.NewClient(rotator, c.Config.FetchOptions().FetchTimeout)
	if err != nil {
		return nil, err
	}
	return scraper.NewHTTPFetcher(client, nil), nil
}

func loadTaxonomy(path string) (*taxonomy.Resolver, *taxonomy.Normalizer, error) {
	table, err := taxonomy.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load taxonomy: %w", err)
	}
	resolver, err := taxonomy.NewResolver(table)
	if err != nil {
		return nil, nil, err
	}
	normalizer, err := taxonomy.NewNormalizer(table)
	if err != nil {
		return nil, nil, err
	}
	return resolver, normalizer, nil
}
