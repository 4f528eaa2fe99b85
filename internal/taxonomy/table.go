package taxonomy

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jimezsa/jobfeed/internal/models"
	"golang.org/x/text/language"
)

const (
	CurrentVersion = 1

	FallbackCategory    = "other"
	FallbackSubCategory = "custom"

	DefaultLanguage = "tr"
)

var ErrInvalidTable = errors.New("invalid taxonomy table")

// ScanMode selects how rules are tested against the two input fields.
type ScanMode string

const (
	// ScanFieldFirst scans every rule against the job area, then every rule
	// against the position.
	ScanFieldFirst ScanMode = "field-first"
	// ScanRuleFirst tests each rule against the job area and the position
	// before moving on to the next rule.
	ScanRuleFirst ScanMode = "rule-first"
)

// Field restricts a rule to one input.
type Field string

const (
	FieldAny      Field = ""
	FieldArea     Field = "area"
	FieldPosition Field = "position"
)

type Rule struct {
	Keyword     string `yaml:"keyword" json:"keyword"`
	Category    string `yaml:"category" json:"category"`
	SubCategory string `yaml:"sub_category" json:"sub_category"`
	Field       Field  `yaml:"field,omitempty" json:"field,omitempty"`
}

type WorkTypeRule struct {
	Keyword string          `yaml:"keyword" json:"keyword"`
	Type    models.WorkType `yaml:"type" json:"type"`
}

type WorkTypeTable struct {
	CaseInsensitive bool           `yaml:"case_insensitive" json:"case_insensitive"`
	Rules           []WorkTypeRule `yaml:"rules" json:"rules"`
}

// Table is the externally editable keyword configuration. Rule order is
// significant: the first matching rule wins.
type Table struct {
	Version         int                 `yaml:"version" json:"version"`
	Scan            ScanMode            `yaml:"scan,omitempty" json:"scan,omitempty"`
	CaseInsensitive bool                `yaml:"case_insensitive" json:"case_insensitive"`
	Language        string              `yaml:"language,omitempty" json:"language,omitempty"`
	Categories      map[string][]string `yaml:"categories" json:"categories"`
	Rules           []Rule              `yaml:"rules" json:"rules"`
	WorkTypes       WorkTypeTable       `yaml:"work_types" json:"work_types"`
}

// Validate checks the table against the closed category set.
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: empty table", ErrInvalidTable)
	}
	if t.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidTable, t.Version)
	}
	switch t.Scan {
	case "", ScanFieldFirst, ScanRuleFirst:
	default:
		return fmt.Errorf("%w: unknown scan mode %q", ErrInvalidTable, t.Scan)
	}
	if _, err := t.languageTag(); err != nil {
		return fmt.Errorf("%w: language %q: %v", ErrInvalidTable, t.Language, err)
	}
	if len(t.Categories) == 0 {
		return fmt.Errorf("%w: no categories", ErrInvalidTable)
	}

	for i, rule := range t.Rules {
		if strings.TrimSpace(rule.Keyword) == "" {
			return fmt.Errorf("%w: rule %d: empty keyword", ErrInvalidTable, i+1)
		}
		if !t.Known(rule.Category, rule.SubCategory) {
			return fmt.Errorf("%w: rule %d (%q): unknown pair %s/%s", ErrInvalidTable, i+1, rule.Keyword, rule.Category, rule.SubCategory)
		}
		switch rule.Field {
		case FieldAny, FieldArea, FieldPosition:
		default:
			return fmt.Errorf("%w: rule %d (%q): unknown field %q", ErrInvalidTable, i+1, rule.Keyword, rule.Field)
		}
	}

	for i, rule := range t.WorkTypes.Rules {
		if strings.TrimSpace(rule.Keyword) == "" {
			return fmt.Errorf("%w: work type rule %d: empty keyword", ErrInvalidTable, i+1)
		}
		if !rule.Type.Valid() {
			return fmt.Errorf("%w: work type rule %d (%q): unknown type %q", ErrInvalidTable, i+1, rule.Keyword, rule.Type)
		}
	}

	return nil
}

// Known reports whether the pair belongs to the closed set. The fallback
// pair is always known.
func (t *Table) Known(category, subCategory string) bool {
	if category == FallbackCategory && subCategory == FallbackSubCategory {
		return true
	}
	for _, sub := range t.Categories[category] {
		if sub == subCategory {
			return true
		}
	}
	return false
}

// CategoryCodes returns the category codes in sorted order.
func (t *Table) CategoryCodes() []string {
	codes := make([]string, 0, len(t.Categories))
	for code := range t.Categories {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (t *Table) scanMode() ScanMode {
	if t.Scan == "" {
		return ScanFieldFirst
	}
	return t.Scan
}

func (t *Table) languageTag() (language.Tag, error) {
	lang := strings.TrimSpace(t.Language)
	if lang == "" {
		lang = DefaultLanguage
	}
	return language.Parse(lang)
}
