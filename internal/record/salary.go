package record

import (
	"regexp"
	"strings"
)

var salaryPattern = regexp.MustCompile(`(\d+(?:\.\d+)?(?:\s*-\s*\d+(?:\.\d+)?)?)\s*TL`)

// Salary returns the first "<amount>[ - <amount>] TL" found in text.
func Salary(text string) string {
	match := salaryPattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1]) + " TL"
}
