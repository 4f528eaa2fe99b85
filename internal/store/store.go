package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jimezsa/jobfeed/internal/models"
)

// CollectionJobs is the collection job records are written to.
const CollectionJobs = "jobs"

var (
	// ErrDuplicate is returned by Insert when a store-level unique
	// constraint on the title rejects the record.
	ErrDuplicate = errors.New("duplicate record")

	ErrUnknownField = errors.New("unknown query field")
	ErrClosed       = errors.New("store is closed")
)

// Store is a document store holding job records.
type Store interface {
	// Query returns every record in collection whose field equals value
	// exactly.
	Query(ctx context.Context, collection, field, value string) ([]models.StoredRecord, error)
	// Insert stores rec under a newly generated id.
	Insert(ctx context.Context, collection string, rec models.JobRecord) (string, error)
	// List returns every record in collection in insertion order.
	List(ctx context.Context, collection string) ([]models.StoredRecord, error)
	Close() error
}

// Queryable record fields, by their document name.
const (
	FieldTitle       = "title"
	FieldCompany     = "company"
	FieldLocation    = "location"
	FieldType        = "type"
	FieldCategory    = "category"
	FieldSubCategory = "subCategory"
	FieldStatus      = "status"
	FieldOwner       = "userId"
	FieldSourceURL   = "originalUrl"
)

// FieldValue returns the value of a queryable field.
func FieldValue(rec models.JobRecord, field string) (string, error) {
	switch field {
	case FieldTitle:
		return rec.Title, nil
	case FieldCompany:
		return rec.Company, nil
	case FieldLocation:
		return rec.Location, nil
	case FieldType:
		return string(rec.Type), nil
	case FieldCategory:
		return rec.Category, nil
	case FieldSubCategory:
		return rec.SubCategory, nil
	case FieldStatus:
		return rec.Status, nil
	case FieldOwner:
		return rec.OwnerID, nil
	case FieldSourceURL:
		return rec.SourceURL, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
}

// ValidateField reports whether field can be queried.
func ValidateField(field string) error {
	_, err := FieldValue(models.JobRecord{}, field)
	return err
}
