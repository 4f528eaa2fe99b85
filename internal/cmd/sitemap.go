package cmd

import (
	"fmt"
	"strings"

	"github.com/jimezsa/jobfeed/internal/export"
)

type SitemapCmd struct {
	BaseURL string `name:"base-url" help:"Public site URL used in <loc> (default: sitemap_base_url from config)."`
	Output  string `name:"output" short:"o" help:"Write the sitemap to a file."`
}

func (s *SitemapCmd) Run(ctx *Context) error {
	base := strings.TrimSpace(s.BaseURL)
	if base == "" {
		base = strings.TrimSpace(ctx.Config.SitemapBaseURL)
	}
	if base == "" {
		return fmt.Errorf("--base-url is required (or set sitemap_base_url in config)")
	}

	records, err := listRecords(ctx)
	if err != nil {
		return err
	}

	writer, closeOutput, err := openOutput(ctx, s.Output)
	if err != nil {
		return err
	}
	err = export.WriteSitemap(writer, base, records)
	if closeErr := closeOutput(); err == nil {
		err = closeErr
	}
	return err
}
