package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jimezsa/jobfeed/internal/config"
	"github.com/jimezsa/jobfeed/internal/network"
	"github.com/jimezsa/jobfeed/internal/store"
	"github.com/jimezsa/jobfeed/internal/store/firebase"
	"github.com/jimezsa/jobfeed/internal/store/jsonfile"
	"github.com/jimezsa/jobfeed/internal/store/redisstore"
	"github.com/jimezsa/jobfeed/internal/store/sqlstore"
)

const sqliteFileName = "jobs.db"

// nopCloser keeps an injected store open across commands.
type nopCloser struct {
	store.Store
}

func (nopCloser) Close() error { return nil }

// openStore returns the record store selected by cfg.Store.
func (c *Context) openStore(ctx context.Context) (store.Store, error) {
	if c.Store != nil {
		return nopCloser{c.Store}, nil
	}
	return openStore(ctx, c.Config.Store, c.Config.FetchOptions().FetchTimeout)
}

func openStore(ctx context.Context, cfg config.StoreConfig, timeout time.Duration) (store.Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	dsn := strings.TrimSpace(cfg.DSN)

	switch backend {
	case config.BackendMemory:
		return store.NewMemory(cfg.Unique), nil
	case "", config.BackendJSONFile:
		if dsn == "" {
			dir, err := config.DataDir()
			if err != nil {
				return nil, err
			}
			dsn = dir
		}
		return jsonfile.Open(dsn, cfg.Unique)
	case config.BackendSQLite:
		if dsn == "" {
			dir, err := config.DataDir()
			if err != nil {
				return nil, err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
			dsn = filepath.Join(dir, sqliteFileName)
		}
		return sqlstore.Open(ctx, sqlstore.SQLite, dsn, cfg.Unique)
	case config.BackendPostgres:
		return sqlstore.Open(ctx, sqlstore.Postgres, dsn, cfg.Unique)
	case config.BackendRedis:
		if dsn == "" {
			return nil, fmt.Errorf("redis: dsn is required")
		}
		return redisstore.Open(ctx, dsn, cfg.Unique)
	case config.BackendFirebase:
		if cfg.Unique {
			return nil, firebase.ErrUniqueUnsupported
		}
		client, err := network.NewClient(nil, timeout)
		if err != nil {
			return nil, err
		}
		return firebase.New(client, dsn, cfg.Auth)
	}
	return nil, fmt.Errorf("unknown store backend %q (memory, jsonfile, sqlite, postgres, redis, firebase)", cfg.Backend)
}
