package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/jobfeed/internal/models"
)

// JSONLD reads schema.org JobPosting blocks. It accepts any host and is
// used when no site-specific extractor matches.
type JSONLD struct{}

func NewJSONLD() *JSONLD {
	return &JSONLD{}
}

func (j *JSONLD) Name() string {
	return SiteJSONLD
}

func (j *JSONLD) Match(u *url.URL) bool {
	return u != nil && u.Host != ""
}

func (j *JSONLD) Extract(doc *goquery.Document) models.Extracted {
	out := models.Extracted{
		Site:  SiteJSONLD,
		Title: DefaultTitle,
		Info:  models.JobInfo{},
	}
	if doc == nil {
		return out
	}

	postings := findJobPostings(doc)
	if len(postings) == 0 {
		if title, ok := selectionText(doc, "h1"); ok && title != "" {
			out.Title = title
		}
		return out
	}

	posting := postings[0]
	if title := CleanText(stringValue(posting["title"], posting["name"])); title != "" {
		out.Title = title
		out.Info[models.LabelPosition] = title
	}
	out.Description = CleanText(stringValue(posting["description"]))
	out.Company = CleanText(stringValue(mapValue(posting["hiringOrganization"], "name")))
	out.URL = stringValue(posting["url"])

	if workType := stringValue(posting["employmentType"]); workType != "" {
		out.Info[models.LabelWorkType] = workType
	}
	if region := regionFromJSONLD(posting["jobLocation"]); region != "" {
		out.Info[models.LabelRegion] = region
	}
	if area := stringValue(posting["industry"], posting["occupationalCategory"]); area != "" {
		out.Info[models.LabelJobArea] = CleanText(area)
	}
	if phone := stringValue(mapValue(posting["applicationContact"], "telephone")); phone != "" {
		out.Phone = phone
	}

	return out
}

// regionFromJSONLD renders the first job location as "Region / Locality",
// the shape of the classified info list.
func regionFromJSONLD(value any) string {
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if region := regionFromJSONLD(item); region != "" {
				return region
			}
		}
	case map[string]any:
		address := v
		if nested, ok := v["address"].(map[string]any); ok {
			address = nested
		}
		var parts []string
		for _, key := range []string{"addressRegion", "addressLocality"} {
			if part := stringValue(address[key]); part != "" {
				parts = append(parts, part)
			}
		}
		return strings.Join(parts, " / ")
	case string:
		return strings.TrimSpace(v)
	}
	return ""
}
