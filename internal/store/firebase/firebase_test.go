package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/jobfeed/internal/models"
	"github.com/jimezsa/jobfeed/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDatabase answers the REST calls the store makes against an
// in-memory map of collection -> id -> document.
type fakeDatabase struct {
	data     map[string]map[string]json.RawMessage
	next     int
	requests []*fhttp.Request
	status   int
}

func newFakeDatabase() *fakeDatabase {
	return &fakeDatabase{data: map[string]map[string]json.RawMessage{}}
}

func respond(status int, body string) *fhttp.Response {
	return &fhttp.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     fhttp.Header{},
	}
}

func (f *fakeDatabase) Do(req *fhttp.Request) (*fhttp.Response, error) {
	f.requests = append(f.requests, req)
	if f.status != 0 {
		return respond(f.status, `{"error": "Permission denied"}`), nil
	}

	collection := strings.TrimSuffix(strings.TrimPrefix(req.URL.Path, "/"), ".json")
	switch req.Method {
	case fhttp.MethodPost:
		body, _ := io.ReadAll(req.Body)
		f.next++
		id := fmt.Sprintf("-N%04d", f.next)
		if f.data[collection] == nil {
			f.data[collection] = map[string]json.RawMessage{}
		}
		f.data[collection][id] = body
		return respond(200, fmt.Sprintf(`{"name": %q}`, id)), nil
	case fhttp.MethodGet:
		docs := f.data[collection]
		query := req.URL.Query()
		if orderBy := query.Get("orderBy"); orderBy != "" {
			var field, value string
			_ = json.Unmarshal([]byte(orderBy), &field)
			_ = json.Unmarshal([]byte(query.Get("equalTo")), &value)
			matched := map[string]json.RawMessage{}
			for id, doc := range docs {
				var fields map[string]any
				_ = json.Unmarshal(doc, &fields)
				if fields[field] == value {
					matched[id] = doc
				}
			}
			docs = matched
		}
		if len(docs) == 0 {
			return respond(200, "null"), nil
		}
		var buf bytes.Buffer
		_ = json.NewEncoder(&buf).Encode(docs)
		return respond(200, buf.String()), nil
	}
	return respond(405, `{"error": "method not allowed"}`), nil
}

func sample(title string) models.JobRecord {
	return models.JobRecord{
		Title:        title,
		Company:      "İş Veren",
		Description:  "Açıklama",
		Location:     "Istanbul",
		Type:         models.WorkTypeFullTime,
		Category:     "maritime",
		SubCategory:  "deck-crew",
		ContactEmail: "ik@example.com",
		OwnerID:      "owner-1",
		CreatedAt:    1700000000000,
		Status:       models.StatusActive,
	}
}

func TestPersistTwice(t *testing.T) {
	ctx := context.Background()
	db := newFakeDatabase()
	s, err := New(db, "https://demo-default-rtdb.firebaseio.com/", "secret")
	require.NoError(t, err)

	p := store.NewPersister(s)
	first, err := p.Persist(ctx, sample("Ship Crew Wanted"))
	require.NoError(t, err)
	assert.Equal(t, store.StatusInserted, first.Status)
	assert.Equal(t, "-N0001", first.ID)

	second, err := p.Persist(ctx, sample("Ship Crew Wanted"))
	require.NoError(t, err)
	assert.Equal(t, store.StatusSkipped, second.Status)
	assert.Equal(t, "-N0001", second.ID)

	require.Len(t, db.data["jobs"], 1)

	query := db.requests[0].URL.Query()
	assert.Equal(t, `"title"`, query.Get("orderBy"))
	assert.Equal(t, `"Ship Crew Wanted"`, query.Get("equalTo"))
	assert.Equal(t, "secret", query.Get("auth"))
	assert.Equal(t, "/jobs.json", db.requests[0].URL.Path)
	assert.Equal(t, fhttp.MethodPost, db.requests[1].Method)
}

func TestListOrdersByPushID(t *testing.T) {
	ctx := context.Background()
	db := newFakeDatabase()
	s, err := New(db, "https://demo-default-rtdb.firebaseio.com", "")
	require.NoError(t, err)

	for _, title := range []string{"A", "B", "C"} {
		_, err := s.Insert(ctx, store.CollectionJobs, sample(title))
		require.NoError(t, err)
	}

	all, err := s.List(ctx, store.CollectionJobs)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{all[0].Record.Title, all[1].Record.Title, all[2].Record.Title})
	assert.Equal(t, "owner-1", all[0].Record.OwnerID)
	assert.Empty(t, db.requests[0].URL.Query().Get("auth"))

	empty, err := s.List(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAPIError(t *testing.T) {
	db := newFakeDatabase()
	db.status = 401
	s, err := New(db, "https://demo-default-rtdb.firebaseio.com", "bad")
	require.NoError(t, err)

	_, err = s.Query(context.Background(), store.CollectionJobs, store.FieldTitle, "A")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Code)
	assert.Equal(t, "Permission denied", apiErr.Message)
}

func TestNewRejectsInvalidURL(t *testing.T) {
	_, err := New(newFakeDatabase(), "not a url", "")
	require.Error(t, err)

	_, err = New(newFakeDatabase(), "ftp://example.com", "")
	require.Error(t, err)
}
