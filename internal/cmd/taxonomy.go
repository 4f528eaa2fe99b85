package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/jimezsa/jobfeed/internal/taxonomy"
	"gopkg.in/yaml.v3"
)

type TaxonomyCmd struct {
	Resolve  ResolveTaxonomyCmd  `cmd:"" help:"Resolve a job area and position to a category pair."`
	Worktype WorktypeTaxonomyCmd `cmd:"" name:"worktype" help:"Normalize a raw work-type string."`
	Check    CheckTaxonomyCmd    `cmd:"" help:"Validate a taxonomy file."`
	Dump     DumpTaxonomyCmd     `cmd:"" help:"Print the active taxonomy table as YAML."`
}

type ResolveTaxonomyCmd struct {
	Area     string `help:"Job area text (İş Alanı)."`
	Position string `help:"Position text (Pozisyon)."`
	File     string `help:"Taxonomy file (default: taxonomy_path from config, else built in)."`
}

type WorktypeTaxonomyCmd struct {
	Raw  string `arg:"" help:"Raw work-type text, e.g. \"Tam Zamanlı\"."`
	File string `help:"Taxonomy file (default: taxonomy_path from config, else built in)."`
}

type CheckTaxonomyCmd struct {
	File string `arg:"" optional:"" help:"Taxonomy file to validate (default: taxonomy_path from config, else built in)."`
}

type DumpTaxonomyCmd struct {
	File string `help:"Taxonomy file (default: taxonomy_path from config, else built in)."`
}

func taxonomyPath(ctx *Context, file string) string {
	if file != "" {
		return file
	}
	return ctx.Config.TaxonomyPath
}

func (c *ResolveTaxonomyCmd) Run(ctx *Context) error {
	resolver, _, err := loadTaxonomy(taxonomyPath(ctx, c.File))
	if err != nil {
		return err
	}
	match := resolver.Explain(c.Area, c.Position)

	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(match)
	}
	if match.Fallback {
		_, err = fmt.Fprintf(ctx.Out, "%s\t%s\t(no rule matched)\n", match.Category, match.SubCategory)
		return err
	}
	_, err = fmt.Fprintf(ctx.Out, "%s\t%s\t(%q in %s)\n", match.Category, match.SubCategory, match.Keyword, match.Field)
	return err
}

func (c *WorktypeTaxonomyCmd) Run(ctx *Context) error {
	_, normalizer, err := loadTaxonomy(taxonomyPath(ctx, c.File))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.Out, normalizer.Normalize(c.Raw))
	return err
}

func (c *CheckTaxonomyCmd) Run(ctx *Context) error {
	path := taxonomyPath(ctx, c.File)
	table, err := taxonomy.Load(path)
	if err != nil {
		return err
	}
	if path == "" {
		path = "built-in table"
	}
	scan := table.Scan
	if scan == "" {
		scan = taxonomy.ScanFieldFirst
	}
	ctx.UI.Successf(
		"%s: ok (version %d, %s scan, %d categories, %d rules, %d work-type rules)",
		path,
		table.Version,
		scan,
		len(table.Categories),
		len(table.Rules),
		len(table.WorkTypes.Rules),
	)
	return nil
}

func (c *DumpTaxonomyCmd) Run(ctx *Context) error {
	path := taxonomyPath(ctx, c.File)
	if path == "" {
		_, err := ctx.Out.Write(taxonomy.DefaultSource())
		return err
	}
	table, err := taxonomy.Load(path)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(ctx.Out)
	enc.SetIndent(2)
	if err := enc.Encode(table); err != nil {
		return err
	}
	return enc.Close()
}
