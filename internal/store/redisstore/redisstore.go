// Package redisstore keeps job records in Redis as JSON strings.
//
// Keys, per collection:
//
//	<prefix><collection>:record:<id>   JSON document
//	<prefix><collection>:ids           list of ids in insertion order
//	<prefix><collection>:title:<title> set of ids sharing a title
//	<prefix><collection>:titles        hash title -> id, unique mode only
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jimezsa/jobfeed/internal/models"
	"github.com/jimezsa/jobfeed/internal/store"
	"github.com/redis/go-redis/v9"
)

const DefaultPrefix = "jobfeed:"

type Store struct {
	rdb    *redis.Client
	prefix string
	unique bool
}

// Open parses redisURL and verifies connectivity.
func Open(ctx context.Context, redisURL string, unique bool) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return New(client, DefaultPrefix, unique), nil
}

func New(rdb *redis.Client, prefix string, unique bool) *Store {
	return &Store{rdb: rdb, prefix: prefix, unique: unique}
}

func (s *Store) recordKey(collection, id string) string {
	return s.prefix + collection + ":record:" + id
}

func (s *Store) idsKey(collection string) string {
	return s.prefix + collection + ":ids"
}

func (s *Store) titleKey(collection, title string) string {
	return s.prefix + collection + ":title:" + title
}

func (s *Store) titlesKey(collection string) string {
	return s.prefix + collection + ":titles"
}

func (s *Store) Query(ctx context.Context, collection, field, value string) ([]models.StoredRecord, error) {
	if err := store.ValidateField(field); err != nil {
		return nil, err
	}

	if field == store.FieldTitle {
		ids, err := s.rdb.SMembers(ctx, s.titleKey(collection, value)).Result()
		if err != nil {
			return nil, fmt.Errorf("redis: title index: %w", err)
		}
		records, err := s.load(ctx, collection, ids)
		if err != nil {
			return nil, err
		}
		return filter(records, field, value), nil
	}

	records, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	return filter(records, field, value), nil
}

func (s *Store) Insert(ctx context.Context, collection string, rec models.JobRecord) (string, error) {
	doc, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()

	if s.unique {
		ok, err := s.rdb.HSetNX(ctx, s.titlesKey(collection), rec.Title, id).Result()
		if err != nil {
			return "", fmt.Errorf("redis: claim title: %w", err)
		}
		if !ok {
			return "", fmt.Errorf("%w: title %q", store.ErrDuplicate, rec.Title)
		}
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.recordKey(collection, id), doc, 0)
		pipe.RPush(ctx, s.idsKey(collection), id)
		pipe.SAdd(ctx, s.titleKey(collection, rec.Title), id)
		return nil
	})
	if err != nil {
		if s.unique {
			s.rdb.HDel(ctx, s.titlesKey(collection), rec.Title)
		}
		return "", fmt.Errorf("redis: insert: %w", err)
	}
	return id, nil
}

func (s *Store) List(ctx context.Context, collection string) ([]models.StoredRecord, error) {
	ids, err := s.rdb.LRange(ctx, s.idsKey(collection), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list ids: %w", err)
	}
	return s.load(ctx, collection, ids)
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) load(ctx context.Context, collection string, ids []string) ([]models.StoredRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recordKey(collection, id)
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis: load records: %w", err)
	}

	out := make([]models.StoredRecord, 0, len(values))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		var rec models.JobRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("redis: record %s: %w", ids[i], err)
		}
		out = append(out, models.StoredRecord{ID: ids[i], Record: rec})
	}
	return out, nil
}

func filter(records []models.StoredRecord, field, value string) []models.StoredRecord {
	var out []models.StoredRecord
	for _, stored := range records {
		if got, _ := store.FieldValue(stored.Record, field); got == value {
			out = append(out, stored)
		}
	}
	return out
}
