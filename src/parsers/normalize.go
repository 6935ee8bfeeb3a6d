// backend/src/parsers/normalize.go
package parsers

import (
	"regexp"
	"strings"
)

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeHeader canonicalizes a column header for catalogue matching:
// trim, lower-case, then strip every character outside [a-z0-9]. "Comm/Fee",
// "comm fee" and "Comm-Fee" all collapse to "commfee".
func NormalizeHeader(s string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")
}
