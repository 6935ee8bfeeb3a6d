// backend/src/utils/date_utils.go
package utils

import (
	"fmt"
	"strings"
	"time"
)

// ParseISO parses an ISO-8601 timestamp or bare date. Naive timestamps are
// treated as UTC.
func ParseISO(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	v = strings.Replace(v, "Z", "+00:00", 1)
	layouts := []string{
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02T15:04:05-07:00",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, v, time.UTC)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized ISO timestamp %q", s)
}

// ToUserDate converts an instant into the user's timezone. Unknown zones
// fall back to UTC rather than failing the request.
func ToUserDate(t time.Time, tz string) time.Time {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return t.In(loc)
}

// StartOfDay truncates to local midnight, keeping the location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// MonthKey formats a time as the YYYY-MM bucket key.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// DateKey formats a time as its ISO calendar date.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
