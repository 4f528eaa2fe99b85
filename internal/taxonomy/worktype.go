package taxonomy

import (
	"github.com/jimezsa/jobfeed/internal/models"
)

type compiledWorkType struct {
	WorkTypeRule
	folded string
}

// Normalizer maps free-text work types onto the canonical labels. It is
// total: unmatched input yields models.WorkTypeFullTime.
type Normalizer struct {
	match matcher
	rules []compiledWorkType
}

func NewNormalizer(t *Table) (*Normalizer, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	tag, _ := t.languageTag()

	n := &Normalizer{match: matcher{insensitive: t.WorkTypes.CaseInsensitive, tag: tag}}
	for _, rule := range t.WorkTypes.Rules {
		n.rules = append(n.rules, compiledWorkType{WorkTypeRule: rule, folded: n.match.fold(rule.Keyword)})
	}
	return n, nil
}

func (n *Normalizer) Normalize(raw string) models.WorkType {
	value := n.match.fold(raw)
	for _, rule := range n.rules {
		if n.match.contains(value, rule.folded) {
			return rule.Type
		}
	}
	return models.WorkTypeFullTime
}
