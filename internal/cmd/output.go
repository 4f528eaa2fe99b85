package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jimezsa/jobfeed/internal/export"
	"github.com/jimezsa/jobfeed/internal/models"
	"github.com/jimezsa/jobfeed/internal/ui"
)

// OutputOptions selects how records are rendered and where they go.
type OutputOptions struct {
	Format string `help:"Output format: table, csv, tsv, json, md." enum:",table,csv,tsv,json,md" default:""`
	Links  string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output string `name:"output" short:"o" help:"Write output to a file."`
}

func resolveFormat(ctx *Context, opts OutputOptions, outputPath string) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if opts.Format != "" {
		return export.ParseFormat(opts.Format)
	}
	if outputPath != "" {
		return formatForPath(outputPath), nil
	}
	if ui.IsTerminal(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

// formatForPath infers a format from the output file extension.
func formatForPath(path string) export.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return export.FormatJSON
	case ".tsv":
		return export.FormatTSV
	case ".md", ".markdown":
		return export.FormatMarkdown
	default:
		return export.FormatCSV
	}
}

// openOutput returns the destination writer and a func that closes it.
func openOutput(ctx *Context, path string) (io.Writer, func() error, error) {
	if strings.TrimSpace(path) == "" {
		return ctx.Out, func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return file, file.Close, nil
}

func writeRecords(ctx *Context, opts OutputOptions, records []models.StoredRecord) error {
	format, err := resolveFormat(ctx, opts, opts.Output)
	if err != nil {
		return err
	}

	writer, closeOutput, err := openOutput(ctx, opts.Output)
	if err != nil {
		return err
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled && opts.Output == ""
	linkStyle := export.LinkStyleShort
	if strings.EqualFold(opts.Links, string(export.LinkStyleFull)) {
		linkStyle = export.LinkStyleFull
	}
	err = export.WriteRecords(writer, records, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   colorEnabled && ui.IsTerminal(writer),
		LinkStyle:    linkStyle,
	})
	if closeErr := closeOutput(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
