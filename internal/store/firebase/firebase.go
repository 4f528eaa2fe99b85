// Package firebase stores job records in a Firebase Realtime Database
// through its REST API.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/jobfeed/internal/models"
	"github.com/jimezsa/jobfeed/internal/network"
	"github.com/jimezsa/jobfeed/internal/store"
)

var ErrUniqueUnsupported = errors.New("firebase: unique mode is not supported")

// APIError is a non-success response from the database.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("firebase: http %d", e.Code)
	}
	return fmt.Sprintf("firebase: http %d: %s", e.Code, e.Message)
}

type Store struct {
	client network.Doer
	base   *url.URL
	auth   string
}

// New returns a store for the database at baseURL, e.g.
// https://<project>-default-rtdb.firebaseio.com. auth is sent as the
// "auth" query parameter when set.
func New(client network.Doer, baseURL, auth string) (*Store, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("firebase: parse url: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" || u.Host == "" {
		return nil, fmt.Errorf("firebase: invalid database url %q", baseURL)
	}
	return &Store{client: client, base: u, auth: auth}, nil
}

func (s *Store) endpoint(collection string, params url.Values) string {
	u := *s.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + url.PathEscape(collection) + ".json"
	if params == nil {
		params = url.Values{}
	}
	if s.auth != "" {
		params.Set("auth", s.auth)
	}
	u.RawQuery = params.Encode()
	return u.String()
}

func (s *Store) Query(ctx context.Context, collection, field, value string) ([]models.StoredRecord, error) {
	if err := store.ValidateField(field); err != nil {
		return nil, err
	}

	orderBy, _ := json.Marshal(field)
	equalTo, _ := json.Marshal(value)
	params := url.Values{}
	params.Set("orderBy", string(orderBy))
	params.Set("equalTo", string(equalTo))

	records, err := s.fetch(ctx, s.endpoint(collection, params))
	if err != nil {
		return nil, err
	}

	var out []models.StoredRecord
	for _, stored := range records {
		if got, _ := store.FieldValue(stored.Record, field); got == value {
			out = append(out, stored)
		}
	}
	return out, nil
}

func (s *Store) Insert(ctx context.Context, collection string, rec models.JobRecord) (string, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}

	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodPost, s.endpoint(collection, nil), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("content-type", "application/json")

	data, err := s.do(req)
	if err != nil {
		return "", err
	}

	var created struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &created); err != nil {
		return "", fmt.Errorf("firebase: decode push id: %w", err)
	}
	if created.Name == "" {
		return "", fmt.Errorf("firebase: empty push id")
	}
	return created.Name, nil
}

// List returns every record ordered by push id, which sorts by creation
// time.
func (s *Store) List(ctx context.Context, collection string) ([]models.StoredRecord, error) {
	return s.fetch(ctx, s.endpoint(collection, nil))
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) fetch(ctx context.Context, endpoint string) ([]models.StoredRecord, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	data, err := s.do(req)
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("firebase: decode records: %w", err)
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]models.StoredRecord, 0, len(ids))
	for _, id := range ids {
		var rec models.JobRecord
		if err := json.Unmarshal(raw[id], &rec); err != nil {
			return nil, fmt.Errorf("firebase: record %s: %w", id, err)
		}
		out = append(out, models.StoredRecord{ID: id, Record: rec})
	}
	return out, nil
}

func (s *Store) do(req *fhttp.Request) ([]byte, error) {
	req.Header.Set("accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("firebase: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("firebase: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &payload)
		return nil, &APIError{Code: resp.StatusCode, Message: payload.Error}
	}
	return data, nil
}
