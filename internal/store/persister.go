package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jimezsa/jobfeed/internal/models"
)

type Status string

const (
	StatusInserted Status = "inserted"
	StatusSkipped  Status = "skipped"
)

// Result reports what Persist did with a record.
type Result struct {
	Status Status
	// ID is the generated id for inserted records and the first existing
	// id for skipped ones, when the store reported one.
	ID string
}

// Persister inserts records that have no title match in the store yet.
// The check and the insert are separate calls, so two concurrent runs can
// still both insert unless the store enforces a unique title.
type Persister struct {
	store      Store
	collection string
	timeout    time.Duration
}

func NewPersister(s Store) *Persister {
	return &Persister{store: s, collection: CollectionJobs}
}

// WithTimeout bounds every store call made by Persist.
func (p *Persister) WithTimeout(timeout time.Duration) *Persister {
	clone := *p
	clone.timeout = timeout
	return &clone
}

// WithCollection targets another collection.
func (p *Persister) WithCollection(collection string) *Persister {
	clone := *p
	clone.collection = collection
	return &clone
}

func (p *Persister) Persist(ctx context.Context, rec models.JobRecord) (Result, error) {
	existing, err := p.query(ctx, rec.Title)
	if err != nil {
		return Result{}, fmt.Errorf("query %s: %w", p.collection, err)
	}
	if len(existing) > 0 {
		return Result{Status: StatusSkipped, ID: existing[0].ID}, nil
	}

	id, err := p.insert(ctx, rec)
	if errors.Is(err, ErrDuplicate) {
		return Result{Status: StatusSkipped}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("insert %s: %w", p.collection, err)
	}
	return Result{Status: StatusInserted, ID: id}, nil
}

func (p *Persister) query(ctx context.Context, title string) ([]models.StoredRecord, error) {
	ctx, cancel := p.callContext(ctx)
	defer cancel()
	return p.store.Query(ctx, p.collection, FieldTitle, title)
}

func (p *Persister) insert(ctx context.Context, rec models.JobRecord) (string, error) {
	ctx, cancel := p.callContext(ctx)
	defer cancel()
	return p.store.Insert(ctx, p.collection, rec)
}

func (p *Persister) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.timeout)
}
