package cmd

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Plain   bool   `help:"TSV output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Version  VersionCmd  `cmd:"" help:"Print version."`
	Config   ConfigCmd   `cmd:"" help:"Manage configuration."`
	Scrape   ScrapeCmd   `cmd:"" help:"Normalize and store individual listing pages."`
	Crawl    CrawlCmd    `cmd:"" help:"Walk listing pages and store every linked listing."`
	List     ListCmd     `cmd:"" help:"Print stored job records."`
	Sitemap  SitemapCmd  `cmd:"" help:"Write a sitemap of active stored records."`
	Taxonomy TaxonomyCmd `cmd:"" help:"Inspect the category and work-type tables."`
	Proxies  ProxiesCmd  `cmd:"" help:"Proxy utilities."`
}

func NewCLI() *CLI {
	return &CLI{}
}
