// Package jsonfile keeps each collection as a pretty-printed JSON array
// in its own file under a directory.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jimezsa/jobfeed/internal/models"
	"github.com/jimezsa/jobfeed/internal/store"
)

type Store struct {
	mu     sync.Mutex
	dir    string
	unique bool
	closed bool
}

// Open prepares dir, creating it when missing.
func Open(dir string, unique bool) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("jsonfile: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonfile: %w", err)
	}
	return &Store{dir: dir, unique: unique}, nil
}

// Path returns the file backing collection.
func (s *Store) Path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

func (s *Store) Query(ctx context.Context, collection, field, value string) ([]models.StoredRecord, error) {
	if err := store.ValidateField(field); err != nil {
		return nil, err
	}
	records, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}

	var out []models.StoredRecord
	for _, stored := range records {
		got, _ := store.FieldValue(stored.Record, field)
		if got == value {
			out = append(out, stored)
		}
	}
	return out, nil
}

func (s *Store) Insert(ctx context.Context, collection string, rec models.JobRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", store.ErrClosed
	}

	path := s.Path(collection)
	records, err := ReadRecordsAllowMissing(path)
	if err != nil {
		return "", err
	}
	if s.unique {
		for _, stored := range records {
			if stored.Record.Title == rec.Title {
				return "", fmt.Errorf("%w: title %q", store.ErrDuplicate, rec.Title)
			}
		}
	}

	id := uuid.NewString()
	records = append(records, models.StoredRecord{ID: id, Record: rec})
	if err := WriteRecords(path, records); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) List(ctx context.Context, collection string) ([]models.StoredRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, store.ErrClosed
	}
	return ReadRecordsAllowMissing(s.Path(collection))
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// ReadRecords reads a JSON array of stored records from path.
func ReadRecords(path string) ([]models.StoredRecord, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []models.StoredRecord{}, nil
	}

	var records []models.StoredRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if records == nil {
		return []models.StoredRecord{}, nil
	}
	return records, nil
}

// ReadRecordsAllowMissing treats a missing file as an empty collection.
func ReadRecordsAllowMissing(path string) ([]models.StoredRecord, error) {
	records, err := ReadRecords(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.StoredRecord{}, nil
		}
		return nil, err
	}
	return records, nil
}

// WriteRecords replaces the file at path with records as pretty JSON,
// writing a temporary sibling and renaming it into place.
func WriteRecords(path string, records []models.StoredRecord) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is required")
	}
	if records == nil {
		records = []models.StoredRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
