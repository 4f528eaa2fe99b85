// Package sqlstore keeps job records in a SQL table, on SQLite or
// PostgreSQL. The full document is stored alongside the queryable columns.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jimezsa/jobfeed/internal/models"
	"github.com/jimezsa/jobfeed/internal/store"
)

var columns = map[string]string{
	store.FieldTitle:       "title",
	store.FieldCompany:     "company",
	store.FieldLocation:    "location",
	store.FieldType:        "type",
	store.FieldCategory:    "category",
	store.FieldSubCategory: "sub_category",
	store.FieldStatus:      "status",
	store.FieldOwner:       "user_id",
	store.FieldSourceURL:   "original_url",
}

type Store struct {
	db      *sql.DB
	dialect Dialect
	unique  bool
}

// Open connects to dsn, verifies the connection and creates the schema.
func Open(ctx context.Context, dialect Dialect, dsn string, unique bool) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%s: dsn is required", dialect.Name)
	}
	db, err := sql.Open(dialect.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", dialect.Name, err)
	}
	if dialect.Name == SQLite.Name {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping failed: %w", dialect.Name, err)
	}

	s := New(db, dialect, unique)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database without touching the schema.
func New(db *sql.DB, dialect Dialect, unique bool) *Store {
	return &Store{db: db, dialect: dialect, unique: unique}
}

// Migrate applies pragmas and creates the records table and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	statements := append([]string{}, s.dialect.Pragmas...)
	statements = append(statements, s.dialect.Schema...)
	if s.unique {
		statements = append(statements, s.dialect.UniqueTitle)
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: migrate: %w", s.dialect.Name, err)
		}
	}
	return nil
}

func (s *Store) Query(ctx context.Context, collection, field, value string) ([]models.StoredRecord, error) {
	column, ok := columns[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", store.ErrUnknownField, field)
	}
	query := fmt.Sprintf("SELECT id, doc FROM records WHERE collection = %s AND %s = %s ORDER BY seq",
		s.dialect.bind(1), column, s.dialect.bind(2))
	return s.scan(ctx, query, collection, value)
}

func (s *Store) Insert(ctx context.Context, collection string, rec models.JobRecord) (string, error) {
	doc, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	query := fmt.Sprintf(`INSERT INTO records (id, collection, title, company, location, type, category, sub_category, status, user_id, original_url, created_at, doc) VALUES (%s)`,
		s.dialect.placeholders(1, 13))
	_, err = s.db.ExecContext(ctx, query,
		id,
		collection,
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
		string(doc),
	)
	if err != nil {
		if s.dialect.isUnique(err) {
			return "", fmt.Errorf("%w: title %q", store.ErrDuplicate, rec.Title)
		}
		return "", fmt.Errorf("%s: insert: %w", s.dialect.Name, err)
	}
	return id, nil
}

func (s *Store) List(ctx context.Context, collection string) ([]models.StoredRecord, error) {
	query := fmt.Sprintf("SELECT id, doc FROM records WHERE collection = %s ORDER BY seq", s.dialect.bind(1))
	return s.scan(ctx, query, collection)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) scan(ctx context.Context, query string, args ...any) ([]models.StoredRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", s.dialect.Name, err)
	}
	defer rows.Close()

	var out []models.StoredRecord
	for rows.Next() {
		var (
			id  string
			doc string
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", s.dialect.Name, err)
		}
		var rec models.JobRecord
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return nil, fmt.Errorf("%s: record %s: %w", s.dialect.Name, id, err)
		}
		out = append(out, models.StoredRecord{ID: id, Record: rec})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", s.dialect.Name, err)
	}
	return out, nil
}
