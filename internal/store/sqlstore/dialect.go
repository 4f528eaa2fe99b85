package sqlstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mattn/go-sqlite3"
)

// Dialect carries what differs between the supported SQL engines.
type Dialect struct {
	Name   string
	Driver string
	// Pragmas run once after opening a connection pool.
	Pragmas []string
	// Schema creates the records table.
	Schema []string
	// UniqueTitle creates the unique title index.
	UniqueTitle string
	bind        func(n int) string
	isUnique    func(err error) bool
}

var SQLite = Dialect{
	Name:   "sqlite",
	Driver: "sqlite3",
	Pragmas: []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	},
	Schema: []string{`CREATE TABLE IF NOT EXISTS records (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	collection TEXT NOT NULL,
	title TEXT NOT NULL,
	company TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	sub_category TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT '',
	user_id TEXT NOT NULL DEFAULT '',
	original_url TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	doc TEXT NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS records_collection_title ON records (collection, title)`,
	},
	UniqueTitle: `CREATE UNIQUE INDEX IF NOT EXISTS records_unique_title ON records (collection, title)`,
	bind:        func(int) string { return "?" },
	isUnique: func(err error) bool {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) {
			return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
		}
		return false
	},
}

var Postgres = Dialect{
	Name:   "postgres",
	Driver: "pgx",
	Schema: []string{`CREATE TABLE IF NOT EXISTS records (
	seq BIGSERIAL PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	collection TEXT NOT NULL,
	title TEXT NOT NULL,
	company TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	sub_category TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT '',
	user_id TEXT NOT NULL DEFAULT '',
	original_url TEXT NOT NULL DEFAULT '',
	created_at BIGINT NOT NULL,
	doc JSONB NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS records_collection_title ON records (collection, title)`,
	},
	UniqueTitle: `CREATE UNIQUE INDEX IF NOT EXISTS records_unique_title ON records (collection, title)`,
	bind:        func(n int) string { return fmt.Sprintf("$%d", n) },
	isUnique: func(err error) bool {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return pgErr.Code == "23505"
		}
		return false
	},
}

// DialectByName returns the dialect for a backend name.
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	}
	return Dialect{}, fmt.Errorf("unknown sql dialect %q", name)
}

// placeholders returns count bind parameters starting at from.
func (d Dialect) placeholders(from, count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = d.bind(from + i)
	}
	return strings.Join(parts, ", ")
}
