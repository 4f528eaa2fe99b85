package taxonomy

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// dotless collapses I, İ, ı and i to a single form after lowering.
var dotless = strings.NewReplacer("ı", "i", "\u0307", "")

// matcher performs ordered substring tests with optional
// language-aware case folding.
type matcher struct {
	insensitive bool
	tag         language.Tag
}

func (m matcher) fold(value string) string {
	if !m.insensitive {
		return value
	}
	// Casers keep state and are not shared between calls.
	return dotless.Replace(cases.Lower(m.tag).String(value))
}

func (m matcher) contains(haystack, foldedKeyword string) bool {
	if foldedKeyword == "" {
		return false
	}
	return strings.Contains(haystack, foldedKeyword)
}
