package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	fhttp "github.com/bogdanfinn/fhttp"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestCleanText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   \n\t ", ""},
		{"plain", "plain"},
		{"  Gemi   Personeli \n Aranıyor  ", "Gemi Personeli Aranıyor"},
		{"<p>Deneyimli <b>usta</b></p>\n<br/>gemici", "Deneyimli usta gemici"},
		{"a&amp;b &lt;c&gt;", "a&b <c>"},
		{"Yaş &lt; 35 ve &gt; 20", "Yaş < 35 ve > 20"},
		{"us<b>ta</b> aranıyor", "usta aranıyor"},
		{"<p>Vardiya</p>\n<p>Servis</p>", "Vardiya Servis"},
		{"Tam&nbsp;zamanlı", "Tam zamanlı"},
		{"<div class=\"x\">\n\n</div>", ""},
	}

	for _, tc := range cases {
		if got := CleanText(tc.in); got != tc.want {
			t.Fatalf("CleanText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCleanTextNeverLeavesTagsOrDoubleSpaces(t *testing.T) {
	inputs := []string{
		"<a href='x'>link</a>   text",
		"line1\n\n\nline2<br>line3",
		"<ul><li>one</li><li>two</li></ul>",
	}
	for _, in := range inputs {
		got := CleanText(in)
		if strings.ContainsAny(got, "<>") {
			t.Fatalf("CleanText(%q) kept markup: %q", in, got)
		}
		if strings.Contains(got, "  ") || got != strings.TrimSpace(got) {
			t.Fatalf("CleanText(%q) not single-spaced: %q", in, got)
		}
	}
}

func TestAbsoluteURL(t *testing.T) {
	base := "https://www.sahibinden.com/is-ilanlari?pagingOffset=20"
	cases := []struct {
		href string
		want string
	}{
		{"/ilan/is-ilanlari-gemici-123/detay", "https://www.sahibinden.com/ilan/is-ilanlari-gemici-123/detay"},
		{"https://other.com/a", "https://other.com/a"},
		{"//cdn.example.com/asset", "https://cdn.example.com/asset"},
		{"", ""},
	}

	for _, tc := range cases {
		got := absoluteURL(base, tc.href)
		if got != tc.want {
			t.Fatalf("absoluteURL(%q) = %q, want %q", tc.href, got, tc.want)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.DeadlineExceeded, true},
		{context.Canceled, false},
		{&StatusError{Code: 503}, true},
		{&StatusError{Code: 429}, true},
		{&StatusError{Code: 404}, false},
		{fmt.Errorf("fetch: %w", &StatusError{Code: 502}), true},
		{errors.New("boom"), false},
	}

	for _, tc := range cases {
		if got := IsRetryable(tc.err); got != tc.want {
			t.Fatalf("IsRetryable(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

type fakeDoer struct {
	status int
	body   string
	req    *fhttp.Request
}

func (f *fakeDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	f.req = req
	return &fhttp.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Header:     fhttp.Header{},
	}, nil
}

func TestHTTPFetcher(t *testing.T) {
	doer := &fakeDoer{status: 200, body: "<html><body><h1>ok</h1></body></html>"}
	fetcher := NewHTTPFetcher(doer, map[string]string{"Referer": "https://www.sahibinden.com"})

	doc, err := fetcher.Fetch(context.Background(), "https://www.sahibinden.com/ilan/1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := doc.Find("h1").Text(); got != "ok" {
		t.Fatalf("unexpected body %q", got)
	}
	if got := doer.req.Header.Get("accept-language"); !strings.HasPrefix(got, "tr-TR") {
		t.Fatalf("unexpected accept-language %q", got)
	}
	if got := doer.req.Header.Get("referer"); got != "https://www.sahibinden.com" {
		t.Fatalf("unexpected referer %q", got)
	}
}

func TestHTTPFetcherStatusError(t *testing.T) {
	doer := &fakeDoer{status: 503, body: "busy"}
	_, err := NewHTTPFetcher(doer, nil).Fetch(context.Background(), "https://example.com")

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != 503 {
		t.Fatalf("expected status error 503, got %v", err)
	}
	if !IsRetryable(err) {
		t.Fatalf("503 should be retryable")
	}
}

func TestFindJobPostings(t *testing.T) {
	html := `
<html><head>
<script type="application/ld+json">{"@type": "Organization", "name": "Acme"}</script>
<script type="application/ld+json">
{"@graph": [
  {"@type": "BreadcrumbList"},
  {"@type": "JobPosting", "title": "Gemi Personeli"}
]}
</script>
<script type="application/ld+json">not json</script>
<script type="application/ld+json">
[{"@type": "JobPosting", "title": "Kaptan"}]
</script>
</head></html>`

	postings := findJobPostings(mustDoc(t, html))
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}
	if stringValue(postings[0]["title"]) != "Gemi Personeli" || stringValue(postings[1]["title"]) != "Kaptan" {
		t.Fatalf("unexpected postings %+v", postings)
	}
}

func TestStringValue(t *testing.T) {
	if got := stringValue(nil, "  ", "x"); got != "x" {
		t.Fatalf("expected first non-empty, got %q", got)
	}
	if got := stringValue([]any{"FULL_TIME", "PART_TIME"}); got != "FULL_TIME, PART_TIME" {
		t.Fatalf("unexpected join %q", got)
	}
	if got := stringValue(float64(25000)); got != "25000" {
		t.Fatalf("unexpected number %q", got)
	}
	if got := stringValue(map[string]any{"name": "Acme"}); got != "Acme" {
		t.Fatalf("unexpected map value %q", got)
	}
}
