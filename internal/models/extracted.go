package models

// Well-known labels of the classified info list.
const (
	LabelRegion   = "İl / İlçe"
	LabelJobArea  = "İş Alanı"
	LabelPosition = "Pozisyon"
	LabelWorkType = "Çalışma Şekli"
)

// JobInfo maps an info-list label to its value. Later entries overwrite
// earlier ones with the same label.
type JobInfo map[string]string

// Get returns the value for label or an empty string.
func (i JobInfo) Get(label string) string {
	if i == nil {
		return ""
	}
	return i[label]
}

// Extracted is the raw, cleaned output of a field extractor.
type Extracted struct {
	Site        string  `json:"site"`
	URL         string  `json:"url,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Info        JobInfo `json:"info"`
	Company     string  `json:"company,omitempty"`
	Phone       string  `json:"phone,omitempty"`
}
