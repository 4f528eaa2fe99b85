package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jimezsa/jobfeed/internal/models"
)

// Memory is an in-process store. With unique set, Insert rejects a second
// record with the same title in a collection.
type Memory struct {
	mu      sync.Mutex
	unique  bool
	closed  bool
	records map[string][]models.StoredRecord
	newID   func() string
}

func NewMemory(unique bool) *Memory {
	return &Memory{
		unique:  unique,
		records: map[string][]models.StoredRecord{},
		newID:   func() string { return uuid.NewString() },
	}
}

func (m *Memory) Query(ctx context.Context, collection, field, value string) ([]models.StoredRecord, error) {
	if err := ValidateField(field); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	var out []models.StoredRecord
	for _, stored := range m.records[collection] {
		got, _ := FieldValue(stored.Record, field)
		if got == value {
			out = append(out, stored)
		}
	}
	return out, nil
}

func (m *Memory) Insert(ctx context.Context, collection string, rec models.JobRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", ErrClosed
	}

	if m.unique {
		for _, stored := range m.records[collection] {
			if stored.Record.Title == rec.Title {
				return "", fmt.Errorf("%w: title %q", ErrDuplicate, rec.Title)
			}
		}
	}

	id := m.newID()
	m.records[collection] = append(m.records[collection], models.StoredRecord{ID: id, Record: rec})
	return id, nil
}

func (m *Memory) List(ctx context.Context, collection string) ([]models.StoredRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	return append([]models.StoredRecord(nil), m.records[collection]...), nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
