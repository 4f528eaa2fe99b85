package record

import (
	"fmt"
	"regexp"
	"strings"
)

var mobilePattern = regexp.MustCompile(`^5[0-9]{9}$`)

// ValidPhone reports whether value is a 10-digit local mobile number.
func ValidPhone(value string) bool {
	return mobilePattern.MatchString(value)
}

// NormalizePhone reduces a scraped phone number to its local 10-digit
// form, or returns "" when that is not possible.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "90"):
		digits = digits[2:]
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		digits = digits[1:]
	}
	if !ValidPhone(digits) {
		return ""
	}
	return digits
}

// contactPhone prefers the caller's phone, which must already be valid,
// over the scraped one, which is normalized and dropped when invalid.
func contactPhone(override, scraped string) (string, error) {
	if override = strings.TrimSpace(override); override != "" {
		if !ValidPhone(override) {
			return "", fmt.Errorf("%w: %q", ErrInvalidPhone, override)
		}
		return override, nil
	}
	return NormalizePhone(scraped), nil
}
