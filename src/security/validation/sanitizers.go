// backend/src/security/validation/sanitizers.go
package validation

import (
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips any HTML from user-supplied free text such as notes.
func SanitizeText(input string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(input))
}

// SanitizeForFormulaInjection neutralizes spreadsheet formula prefixes in
// values that may be re-exported to CSV later.
func SanitizeForFormulaInjection(input string) string {
	trimmed := strings.TrimLeft(input, " \t")
	if trimmed == "" {
		return input
	}
	switch trimmed[0] {
	case '=', '+', '-', '@':
		return "'" + input
	}
	return input
}

// StripUnprintable removes control characters, keeping tabs and newlines.
func StripUnprintable(input string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)
}
