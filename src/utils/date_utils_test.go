package utils

import "testing"

func TestParseISO(t *testing.T) {
	cases := []string{
		"2024-03-01T15:04:05Z",
		"2024-03-01T15:04:05+00:00",
		"2024-03-01T15:04:05",
		"2024-03-01 15:04:05",
		"2024-03-01",
	}
	for _, c := range cases {
		if _, err := ParseISO(c); err != nil {
			t.Errorf("ParseISO(%q) failed: %v", c, err)
		}
	}
	if _, err := ParseISO("03/01/2024"); err == nil {
		t.Error("Expected US-style date to be rejected")
	}
}

func TestToUserDateUnknownZoneFallsBackToUtc(t *testing.T) {
	at, err := ParseISO("2024-03-01T15:04:05Z")
	if err != nil {
		t.Fatalf("ParseISO failed: %v", err)
	}
	got := ToUserDate(at, "Not/AZone")
	if got.Location().String() != "UTC" {
		t.Errorf("Expected UTC fallback, got %s", got.Location())
	}
}

func TestDateAndMonthKeys(t *testing.T) {
	at, err := ParseISO("2024-03-01T15:04:05")
	if err != nil {
		t.Fatalf("ParseISO failed: %v", err)
	}
	if got := DateKey(at); got != "2024-03-01" {
		t.Errorf("DateKey = %q", got)
	}
	if got := MonthKey(at); got != "2024-03" {
		t.Errorf("MonthKey = %q", got)
	}
	if got := DateKey(StartOfDay(at)); got != "2024-03-01" {
		t.Errorf("StartOfDay moved the date: %q", got)
	}
}
