package export

import (
	"encoding/xml"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/jimezsa/jobfeed/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	sitemapNamespace  = "http://www.sitemaps.org/schemas/sitemap/0.9"
	sitemapChangeFreq = "daily"
	sitemapPriority   = "0.8"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// WriteSitemap writes one <url> entry per active record, in input order.
// Locations take the form {baseURL}/ilan/{slug}/{id}.
func WriteSitemap(w io.Writer, baseURL string, records []models.StoredRecord) error {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	set := urlSet{Xmlns: sitemapNamespace}
	for _, stored := range records {
		if stored.Record.Status != models.StatusActive || stored.ID == "" {
			continue
		}
		entry := sitemapURL{
			Loc:        SitemapLoc(base, stored),
			ChangeFreq: sitemapChangeFreq,
			Priority:   sitemapPriority,
		}
		if stored.Record.CreatedAt > 0 {
			entry.LastMod = time.UnixMilli(stored.Record.CreatedAt).UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, entry)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func SitemapLoc(base string, stored models.StoredRecord) string {
	slug := Slug(stored.Record.Title)
	if slug == "" {
		slug = "ilan"
	}
	return base + "/ilan/" + slug + "/" + stored.ID
}

var (
	slugStrip  = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces = regexp.MustCompile(`\s+`)
	slugDashes = regexp.MustCompile(`-+`)

	slugLetters = strings.NewReplacer(
		"ğ", "g",
		"ü", "u",
		"ş", "s",
		"ı", "i",
		"ö", "o",
		"ç", "c",
	)
)

// Slug turns a title into a lowercase ASCII path segment.
// Turkish letters are transliterated and other marks are dropped.
func Slug(title string) string {
	lower := cases.Lower(language.Turkish).String(strings.TrimSpace(title))
	lower = slugLetters.Replace(lower)
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(stripMarks, lower); err == nil {
		lower = folded
	}
	lower = slugStrip.ReplaceAllString(lower, "")
	lower = slugSpaces.ReplaceAllString(strings.TrimSpace(lower), "-")
	lower = slugDashes.ReplaceAllString(lower, "-")
	return strings.Trim(lower, "-")
}
