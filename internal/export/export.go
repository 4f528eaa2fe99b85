package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jimezsa/jobfeed/internal/models"
	"github.com/muesli/termenv"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

// ParseFormat maps a flag value to a Format, defaulting to the table.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatTSV:
		return FormatTSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatMarkdown, "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q (table, csv, tsv, json, md)", value)
}

func WriteRecords(w io.Writer, records []models.StoredRecord, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, records)
	case FormatCSV:
		return writeCSV(w, records, ',')
	case FormatTSV:
		return writeCSV(w, records, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, records)
	default:
		return writeTable(w, records, opts)
	}
}

func writeJSON(w io.Writer, records []models.StoredRecord) error {
	if records == nil {
		records = []models.StoredRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeCSV(w io.Writer, records []models.StoredRecord, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for _, stored := range records {
		if err := writer.Write(csvRow(stored)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, records []models.StoredRecord, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
	output := termenv.NewOutput(w)
	for _, stored := range records {
		fmt.Fprintln(tw, strings.Join(tableRow(stored, output, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, records []models.StoredRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No records.")
		return err
	}
	for _, stored := range records {
		rec := stored.Record
		urlLine := "  URL: -"
		if link := safe(rec.SourceURL); link != "" {
			urlLine = fmt.Sprintf("  URL: [Open listing](<%s>)", link)
		}
		lines := []string{
			fmt.Sprintf("- **%s** (%s)", safe(rec.Title), safe(rec.Company)),
			fmt.Sprintf("  Location: %s", dash(rec.Location)),
			fmt.Sprintf("  Type: %s", dash(string(rec.Type))),
			fmt.Sprintf("  Category: %s / %s", dash(rec.Category), dash(rec.SubCategory)),
			urlLine,
		}
		if stored.ID != "" {
			lines = append(lines, fmt.Sprintf("  ID: %s", stored.ID))
		}
		if rec.Salary != "" {
			lines = append(lines, fmt.Sprintf("  Salary: %s", safe(rec.Salary)))
		}
		if rec.CreatedAt > 0 {
			lines = append(lines, fmt.Sprintf("  Created: %s", createdAt(rec)))
		}
		if rec.Description != "" {
			lines = append(lines, fmt.Sprintf("  Summary: %s", truncate(safe(rec.Description), 240)))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func csvHeader() []string {
	return []string{
		"id",
		"title",
		"company",
		"location",
		"type",
		"category",
		"sub_category",
		"salary",
		"contact_email",
		"contact_phone",
		"user_id",
		"created_at",
		"status",
		"url",
		"description",
	}
}

func csvRow(stored models.StoredRecord) []string {
	rec := stored.Record
	created := ""
	if rec.CreatedAt > 0 {
		created = createdAt(rec)
	}
	return []string{
		stored.ID,
		rec.Title,
		rec.Company,
		rec.Location,
		string(rec.Type),
		rec.Category,
		rec.SubCategory,
		rec.Salary,
		rec.ContactEmail,
		rec.ContactPhone,
		rec.OwnerID,
		created,
		rec.Status,
		rec.SourceURL,
		rec.Description,
	}
}

func createdAt(rec models.JobRecord) string {
	return time.UnixMilli(rec.CreatedAt).UTC().Format(time.RFC3339)
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func dash(value string) string {
	if value = safe(value); value == "" {
		return "-"
	}
	return value
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}

func tableHeader() []string {
	return []string{
		"title",
		"location",
		"type",
		"category",
		"created",
		"url",
	}
}

func tableRow(stored models.StoredRecord, output *termenv.Output, opts WriteOptions) []string {
	const linkColor = "#87CEEB"

	rec := stored.Record
	link := safe(rec.SourceURL)
	displayURL := "-"
	if link != "" {
		displayURL = link
		if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
			displayURL = shortURLLabel(link)
		}
		if opts.ColorEnabled {
			displayURL = output.String(displayURL).Foreground(output.Color(linkColor)).String()
		}
		if opts.Hyperlinks {
			displayURL = hyperlink(link, displayURL)
		}
	}

	created := "-"
	if rec.CreatedAt > 0 {
		created = time.UnixMilli(rec.CreatedAt).UTC().Format("2006-01-02")
	}
	return []string{
		truncate(safe(rec.Title), 60),
		dash(rec.Location),
		dash(string(rec.Type)),
		dash(rec.Category) + "/" + dash(rec.SubCategory),
		created,
		displayURL,
	}
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}

// Summary renders per-status counts as "inserted=2 skipped=1".
func Summary(counts map[string]int, order []string) string {
	var parts []string
	for _, key := range order {
		parts = append(parts, key+"="+strconv.Itoa(counts[key]))
	}
	return strings.Join(parts, " ")
}
