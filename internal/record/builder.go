package record

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jimezsa/jobfeed/internal/models"
	"github.com/jimezsa/jobfeed/internal/scraper"
)

const DefaultCompany = "İş Veren"

var (
	ErrMissingField = errors.New("missing mandatory field")

	ErrMissingTitle       = fmt.Errorf("%w: title", ErrMissingField)
	ErrMissingLocation    = fmt.Errorf("%w: location", ErrMissingField)
	ErrMissingDescription = fmt.Errorf("%w: description", ErrMissingField)

	ErrInvalidPhone = errors.New("invalid contact phone")
	ErrMissingOwner = errors.New("owner id is not configured")
)

// Identity holds the caller-supplied fields stamped onto every record.
type Identity struct {
	OwnerID            string
	ContactEmail       string
	ContactPhone       string
	CompanyPlaceholder string
}

// Classification is a resolved (category, sub-category) pair.
type Classification struct {
	Category    string
	SubCategory string
}

type Builder struct {
	now func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// WithClock returns a builder that stamps records using now.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	return &Builder{now: now}
}

// Build assembles a record. It refuses when the title, location or
// description would be empty, or when the identity is incomplete.
func (b *Builder) Build(ex models.Extracted, class Classification, workType models.WorkType, id Identity) (models.JobRecord, error) {
	ownerID := strings.TrimSpace(id.OwnerID)
	if ownerID == "" {
		return models.JobRecord{}, ErrMissingOwner
	}

	phone, err := contactPhone(id.ContactPhone, ex.Phone)
	if err != nil {
		return models.JobRecord{}, err
	}

	title := scraper.CleanText(ex.Title)
	description := scraper.CleanText(ex.Description)
	location := Location(ex.Info.Get(models.LabelRegion))

	switch {
	case title == "":
		return models.JobRecord{}, ErrMissingTitle
	case location == "":
		return models.JobRecord{}, ErrMissingLocation
	case description == "":
		return models.JobRecord{}, ErrMissingDescription
	}

	if !workType.Valid() {
		workType = models.WorkTypeFullTime
	}

	company := scraper.CleanText(ex.Company)
	if company == "" {
		company = strings.TrimSpace(id.CompanyPlaceholder)
	}
	if company == "" {
		company = DefaultCompany
	}

	return models.JobRecord{
		Title:        title,
		Company:      company,
		Description:  description,
		Location:     location,
		Type:         workType,
		Category:     class.Category,
		SubCategory:  class.SubCategory,
		Salary:       Salary(title),
		ContactEmail: strings.TrimSpace(id.ContactEmail),
		ContactPhone: phone,
		OwnerID:      ownerID,
		CreatedAt:    b.now().UnixMilli(),
		Status:       models.StatusActive,
		SourceURL:    ex.URL,
	}, nil
}

// Location returns the region part of a "Region / District" value.
func Location(region string) string {
	region = scraper.CleanText(region)
	if idx := strings.Index(region, "/"); idx >= 0 {
		region = region[:idx]
	}
	return strings.TrimSpace(region)
}
