package taxonomy

// Match describes a resolution and the rule that produced it.
type Match struct {
	Category    string `json:"category"`
	SubCategory string `json:"subCategory"`
	Keyword     string `json:"keyword,omitempty"`
	Field       Field  `json:"field,omitempty"`
	Fallback    bool   `json:"fallback"`
}

type compiledRule struct {
	Rule
	folded string
}

// Resolver maps free-text job area and position strings to a
// (category, sub-category) pair. It is read-only after construction and
// safe for concurrent use.
type Resolver struct {
	mode    ScanMode
	match   matcher
	rules   []compiledRule
	version int
}

// NewResolver validates t and prepares its rules.
func NewResolver(t *Table) (*Resolver, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	tag, _ := t.languageTag()

	r := &Resolver{
		mode:    t.scanMode(),
		match:   matcher{insensitive: t.CaseInsensitive, tag: tag},
		version: t.Version,
	}
	for _, rule := range t.Rules {
		r.rules = append(r.rules, compiledRule{Rule: rule, folded: r.match.fold(rule.Keyword)})
	}
	return r, nil
}

// Resolve returns the category pair for the inputs, or the fallback pair
// when no rule matches either of them.
func (r *Resolver) Resolve(area, position string) (string, string) {
	m := r.Explain(area, position)
	return m.Category, m.SubCategory
}

// Explain is Resolve with the winning rule attached.
func (r *Resolver) Explain(area, position string) Match {
	area = r.match.fold(area)
	position = r.match.fold(position)

	if r.mode == ScanRuleFirst {
		for _, rule := range r.rules {
			if m, ok := r.test(rule, FieldArea, area); ok {
				return m
			}
			if m, ok := r.test(rule, FieldPosition, position); ok {
				return m
			}
		}
		return fallback()
	}

	for _, rule := range r.rules {
		if m, ok := r.test(rule, FieldArea, area); ok {
			return m
		}
	}
	for _, rule := range r.rules {
		if m, ok := r.test(rule, FieldPosition, position); ok {
			return m
		}
	}
	return fallback()
}

func (r *Resolver) test(rule compiledRule, field Field, value string) (Match, bool) {
	if rule.Field != FieldAny && rule.Field != field {
		return Match{}, false
	}
	if !r.match.contains(value, rule.folded) {
		return Match{}, false
	}
	return Match{
		Category:    rule.Category,
		SubCategory: rule.SubCategory,
		Keyword:     rule.Keyword,
		Field:       field,
	}, true
}

func fallback() Match {
	return Match{Category: FallbackCategory, SubCategory: FallbackSubCategory, Fallback: true}
}
