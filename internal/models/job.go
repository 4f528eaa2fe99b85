package models

// WorkType is one of the canonical employment-type labels.
type WorkType string

const (
	WorkTypeFullTime WorkType = "Full-Time"
	WorkTypePartTime WorkType = "Part-Time"
	WorkTypeRemote   WorkType = "Remote"
	WorkTypeIntern   WorkType = "Intern"
	WorkTypeContract WorkType = "Contract"
)

// WorkTypes lists the canonical labels in display order.
var WorkTypes = []WorkType{
	WorkTypeFullTime,
	WorkTypePartTime,
	WorkTypeRemote,
	WorkTypeIntern,
	WorkTypeContract,
}

// Valid reports whether t is one of the canonical labels.
func (t WorkType) Valid() bool {
	for _, known := range WorkTypes {
		if t == known {
			return true
		}
	}
	return false
}

const StatusActive = "active"

// JobRecord is the normalized listing persisted to the jobs collection.
// The JSON shape matches the documents read by the web front-end.
type JobRecord struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	Type         WorkType `json:"type"`
	Category     string   `json:"category"`
	SubCategory  string   `json:"subCategory"`
	Salary       string   `json:"salary,omitempty"`
	ContactEmail string   `json:"contactEmail,omitempty"`
	ContactPhone string   `json:"contactPhone,omitempty"`
	OwnerID      string   `json:"userId"`
	CreatedAt    int64    `json:"createdAt"`
	Status       string   `json:"status"`
	SourceURL    string   `json:"originalUrl,omitempty"`
}

// StoredRecord pairs a record with the id the store assigned to it.
type StoredRecord struct {
	ID     string    `json:"id"`
	Record JobRecord `json:"record"`
}
