package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/jobfeed/internal/network"
)

// StatusError reports a non-success HTTP response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d", e.Code)
}

// IsRetryable reports whether a fetch error is worth another attempt:
// timeouts, transport errors, 429 and 5xx responses.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == 429 || statusErr.Code >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// HTTPFetcher fetches pages through the shared network client.
type HTTPFetcher struct {
	client  network.Doer
	headers map[string]string
}

func NewHTTPFetcher(client network.Doer, headers map[string]string) *HTTPFetcher {
	return &HTTPFetcher{client: client, headers: headers}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, target string) (*goquery.Document, error) {
	return fetchDocument(ctx, f.client, target, f.headers)
}

func fetchDocument(ctx context.Context, client network.Doer, target string, headers map[string]string) (*goquery.Document, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	applyHeaders(req, headers)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != fhttp.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func applyHeaders(req *fhttp.Request, headers map[string]string) {
	merged := map[string]string{
		"accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"accept-language": "tr-TR,tr;q=0.9,en-US;q=0.8,en;q=0.7",
	}
	for key, value := range headers {
		merged[strings.ToLower(key)] = value
	}
	for key, value := range merged {
		req.Header.Set(key, value)
	}
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// CleanText strips markup tags, decodes entities, then collapses whitespace
// runs to single spaces and trims the result. Entities are decoded after
// stripping so escaped angle brackets survive as text.
func CleanText(value string) string {
	if value == "" {
		return ""
	}
	value = tagPattern.ReplaceAllString(value, "")
	value = html.UnescapeString(value)
	return strings.Join(strings.Fields(value), " ")
}

func selectionText(doc *goquery.Document, selector string) (string, bool) {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	return CleanText(sel.Text()), true
}

func absoluteURL(base string, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

// findJobPostings walks every JSON-LD block and returns the JobPosting
// objects in document order.
func findJobPostings(doc *goquery.Document) []map[string]any {
	var postings []map[string]any

	doc.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		data, err := decodeJSONLD(raw)
		if err != nil {
			return
		}
		postings = append(postings, collectJobPostings(data)...)
	})

	return postings
}

func decodeJSONLD(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "<!--")
	raw = strings.TrimSuffix(raw, "-->")
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, "\u2028", "")
	raw = strings.ReplaceAll(raw, "\u2029", "")

	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return data, nil
}

func collectJobPostings(data any) []map[string]any {
	var postings []map[string]any

	switch value := data.(type) {
	case []any:
		for _, item := range value {
			postings = append(postings, collectJobPostings(item)...)
		}
	case map[string]any:
		if typ := strings.ToLower(stringValue(value["@type"], value["type"])); typ == "jobposting" {
			return append(postings, value)
		}
		if items, ok := value["itemListElement"]; ok {
			postings = append(postings, collectJobPostings(items)...)
		}
		if item, ok := value["item"]; ok {
			postings = append(postings, collectJobPostings(item)...)
		}
		if graph, ok := value["@graph"]; ok {
			postings = append(postings, collectJobPostings(graph)...)
		}
		if main, ok := value["mainEntity"]; ok {
			postings = append(postings, collectJobPostings(main)...)
		}
	}

	return postings
}

func stringValue(values ...any) string {
	for _, value := range values {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case float64:
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
		case json.Number:
			return v.String()
		case []any:
			var parts []string
			for _, item := range v {
				if part := stringValue(item); part != "" {
					parts = append(parts, part)
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, ", ")
			}
		case map[string]any:
			if name := stringValue(v["name"]); name != "" {
				return name
			}
		}
	}
	return ""
}

func mapValue(value any, key string) any {
	if value == nil {
		return nil
	}
	m, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}
