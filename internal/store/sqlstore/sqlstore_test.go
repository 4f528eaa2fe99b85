package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jimezsa/jobfeed/internal/models"
	"github.com/jimezsa/jobfeed/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(title string) models.JobRecord {
	return models.JobRecord{
		Title:       title,
		Company:     "İş Veren",
		Description: "Açıklama",
		Location:    "İzmir",
		Type:        models.WorkTypeContract,
		Category:    "construction",
		SubCategory: "construction-worker",
		OwnerID:     "owner-1",
		CreatedAt:   1700000000000,
		Status:      models.StatusActive,
		SourceURL:   "https://www.sahibinden.com/ilan/1",
	}
}

func openSQLite(t *testing.T, unique bool) *Store {
	t.Helper()
	s, err := Open(context.Background(), SQLite, filepath.Join(t.TempDir(), "jobs.db"), unique)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLitePersistTwice(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t, false)
	p := store.NewPersister(s)

	first, err := p.Persist(ctx, sample("Usta"))
	require.NoError(t, err)
	assert.Equal(t, store.StatusInserted, first.Status)

	second, err := p.Persist(ctx, sample("Usta"))
	require.NoError(t, err)
	assert.Equal(t, store.StatusSkipped, second.Status)
	assert.Equal(t, first.ID, second.ID)

	all, err := s.List(ctx, store.CollectionJobs)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, sample("Usta"), all[0].Record)
}

func TestSQLiteUniqueIndex(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t, true)

	_, err := s.Insert(ctx, store.CollectionJobs, sample("Usta"))
	require.NoError(t, err)
	_, err = s.Insert(ctx, store.CollectionJobs, sample("Usta"))
	require.ErrorIs(t, err, store.ErrDuplicate)

	_, err = s.Insert(ctx, "archive", sample("Usta"))
	require.NoError(t, err)
}

func TestSQLiteQuery(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t, false)

	a := sample("Usta")
	b := sample("Kalfa")
	b.Location = "Bursa"
	for _, rec := range []models.JobRecord{a, b} {
		_, err := s.Insert(ctx, store.CollectionJobs, rec)
		require.NoError(t, err)
	}

	got, err := s.Query(ctx, store.CollectionJobs, store.FieldLocation, "Bursa")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Kalfa", got[0].Record.Title)

	got, err = s.Query(ctx, store.CollectionJobs, store.FieldTitle, "usta")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = s.Query(ctx, store.CollectionJobs, "doc", "x")
	require.ErrorIs(t, err, store.ErrUnknownField)
}

func TestPostgresQuerySqlmock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := New(db, Postgres, false)
	rows := sqlmock.NewRows([]string{"id", "doc"}).
		AddRow("id-1", `{"title":"Usta","location":"İzmir","type":"Contract","status":"active","userId":"owner-1"}`)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, doc FROM records WHERE collection = $1 AND title = $2 ORDER BY seq")).
		WithArgs(store.CollectionJobs, "Usta").
		WillReturnRows(rows)

	got, err := s.Query(context.Background(), store.CollectionJobs, store.FieldTitle, "Usta")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "id-1", got[0].ID)
	assert.Equal(t, "owner-1", got[0].Record.OwnerID)
	assert.Equal(t, models.WorkTypeContract, got[0].Record.Type)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInsertSqlmock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := sample("Usta")
	s := New(db, Postgres, true)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO records (id, collection, title, company, location, type, category, sub_category, status, user_id, original_url, created_at, doc) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)")).
		WithArgs(
			sqlmock.AnyArg(), // id
			store.CollectionJobs,
			rec.Title,
			rec.Company,
			rec.Location,
			string(rec.Type),
			rec.Category,
			rec.SubCategory,
			rec.Status,
			rec.OwnerID,
			rec.SourceURL,
			rec.CreatedAt,
			sqlmock.AnyArg(), // doc
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO records").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectExec("INSERT INTO records").
		WillReturnError(errors.New("connection reset"))

	id, err := s.Insert(context.Background(), store.CollectionJobs, rec)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	_, err = s.Insert(context.Background(), store.CollectionJobs, rec)
	require.ErrorIs(t, err, store.ErrDuplicate)

	_, err = s.Insert(context.Background(), store.CollectionJobs, rec)
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrDuplicate)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMigrateSqlmock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS records").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS records_collection_title").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE UNIQUE INDEX IF NOT EXISTS records_unique_title").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, New(db, Postgres, true).Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDialectByName(t *testing.T) {
	d, err := DialectByName("PostgreSQL")
	require.NoError(t, err)
	assert.Equal(t, "pgx", d.Driver)
	assert.Equal(t, "$1, $2, $3", d.placeholders(1, 3))

	d, err = DialectByName("sqlite")
	require.NoError(t, err)
	assert.Equal(t, "?, ?", d.placeholders(1, 2))

	_, err = DialectByName("mysql")
	require.Error(t, err)
}
