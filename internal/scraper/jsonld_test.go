package scraper

import (
	"testing"

	"github.com/jimezsa/jobfeed/internal/models"
)

func TestJSONLDExtract(t *testing.T) {
	html := `
<html><head>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "JobPosting",
  "title": "Gemi Personeli",
  "description": "<p>Deneyimli <b>gemici</b> aranıyor</p>",
  "hiringOrganization": {"@type": "Organization", "name": "Deniz A.Ş."},
  "employmentType": ["FULL_TIME"],
  "industry": "Denizcilik",
  "url": "https://jobs.example.com/1",
  "jobLocation": {"@type": "Place", "address": {"addressRegion": "İzmir", "addressLocality": "Karşıyaka"}},
  "applicationContact": {"telephone": "5321234567"}
}
</script>
</head><body></body></html>`

	got := NewJSONLD().Extract(mustDoc(t, html))

	if got.Title != "Gemi Personeli" {
		t.Fatalf("unexpected title %q", got.Title)
	}
	if got.Description != "Deneyimli gemici aranıyor" {
		t.Fatalf("unexpected description %q", got.Description)
	}
	if got.Company != "Deniz A.Ş." {
		t.Fatalf("unexpected company %q", got.Company)
	}
	if got.URL != "https://jobs.example.com/1" {
		t.Fatalf("unexpected url %q", got.URL)
	}
	if got.Phone != "5321234567" {
		t.Fatalf("unexpected phone %q", got.Phone)
	}
	cases := map[string]string{
		models.LabelRegion:   "İzmir / Karşıyaka",
		models.LabelJobArea:  "Denizcilik",
		models.LabelPosition: "Gemi Personeli",
		models.LabelWorkType: "FULL_TIME",
	}
	for label, want := range cases {
		if got.Info.Get(label) != want {
			t.Fatalf("info[%q] = %q, want %q", label, got.Info.Get(label), want)
		}
	}
}

func TestJSONLDExtractWithoutPosting(t *testing.T) {
	got := NewJSONLD().Extract(mustDoc(t, `<html><body><h1> Başlık </h1></body></html>`))
	if got.Title != "Başlık" {
		t.Fatalf("expected h1 fallback, got %q", got.Title)
	}
	if got.Description != "" || len(got.Info) != 0 {
		t.Fatalf("expected empty fields, got %+v", got)
	}
}
