package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jimezsa/jobfeed/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []models.StoredRecord {
	created := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC).UnixMilli()
	return []models.StoredRecord{
		{
			ID: "a1",
			Record: models.JobRecord{
				Title:       "Ship Crew",
				Company:     "Acme Denizcilik",
				Description: "Deck work, watch duty",
				Location:    "İzmir / Konak",
				Type:        models.WorkTypeFullTime,
				Category:    "maritime",
				SubCategory: "deck-crew",
				OwnerID:     "owner-1",
				CreatedAt:   created,
				Status:      models.StatusActive,
				SourceURL:   "https://www.sahibinden.com/ilan/ship-crew-123/detay",
			},
		},
		{
			ID: "b2",
			Record: models.JobRecord{
				Title:    "Garson",
				Company:  "İş Veren",
				Location: "Ankara",
				Type:     models.WorkTypePartTime,
				Status:   "inactive",
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"":         FormatTable,
		"TABLE":    FormatTable,
		"csv":      FormatCSV,
		"tsv":      FormatTSV,
		" json ":   FormatJSON,
		"md":       FormatMarkdown,
		"markdown": FormatMarkdown,
	}
	for input, want := range cases {
		got, err := ParseFormat(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteRecordsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, sampleRecords(), FormatJSON, WriteOptions{}))

	var decoded []models.StoredRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "a1", decoded[0].ID)
	assert.Equal(t, "deck-crew", decoded[0].Record.SubCategory)
	assert.Contains(t, buf.String(), `"subCategory": "deck-crew"`)
}

func TestWriteRecordsJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, nil, FormatJSON, WriteOptions{}))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteRecordsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, sampleRecords(), FormatCSV, WriteOptions{}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader(), rows[0])
	assert.Equal(t, "Ship Crew", rows[1][1])
	assert.Equal(t, "2024-05-02T09:30:00Z", rows[1][11])
	assert.Equal(t, "", rows[2][11])
}

func TestWriteRecordsTSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, sampleRecords(), FormatTSV, WriteOptions{}))
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, strings.Join(csvHeader(), "\t"), first)
}

func TestWriteRecordsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, sampleRecords(), FormatTable, WriteOptions{}))

	out := buf.String()
	assert.Contains(t, out, "title")
	assert.Contains(t, out, "maritime/deck-crew")
	assert.Contains(t, out, "2024-05-02")
	assert.NotContains(t, out, "\x1b")
}

func TestWriteRecordsTableHyperlinks(t *testing.T) {
	var buf bytes.Buffer
	opts := WriteOptions{Hyperlinks: true, LinkStyle: LinkStyleShort}
	require.NoError(t, WriteRecords(&buf, sampleRecords()[:1], FormatTable, opts))

	out := buf.String()
	assert.Contains(t, out, "\x1b]8;;https://www.sahibinden.com/ilan/ship-crew-123/detay")
	assert.Contains(t, out, "sahibinden.com/ilan/ship-crew-123/detay")
}

func TestWriteRecordsMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecords(&buf, sampleRecords(), FormatMarkdown, WriteOptions{}))

	out := buf.String()
	assert.Contains(t, out, "- **Ship Crew** (Acme Denizcilik)")
	assert.Contains(t, out, "  Category: maritime / deck-crew")
	assert.Contains(t, out, "  URL: -")

	buf.Reset()
	require.NoError(t, WriteRecords(&buf, nil, FormatMarkdown, WriteOptions{}))
	assert.Equal(t, "No records.\n", buf.String())
}

func TestShortURLLabel(t *testing.T) {
	assert.Equal(t, "example.com/jobs/1", shortURLLabel("https://www.example.com/jobs/1"))
	long := "https://example.com/" + strings.Repeat("a", 80)
	assert.Len(t, shortURLLabel(long), 60)
}

func TestSummary(t *testing.T) {
	counts := map[string]int{"inserted": 2, "skipped": 1}
	assert.Equal(t, "inserted=2 skipped=1 rejected=0", Summary(counts, []string{"inserted", "skipped", "rejected"}))
}
