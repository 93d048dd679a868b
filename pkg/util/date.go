package util

import "time"

const dateLayout = "2006-01-02"

// ParseDate tries calendar dates (2006-01-02) first, then RFC3339
// timestamps. Returns (t, true) if any worked. Dates are pinned to UTC
// midnight.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(dateLayout, s, time.UTC); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// ParseDateDefault parses a date or returns default if empty/invalid.
func ParseDateDefault(s string, def time.Time) time.Time {
	if t, ok := ParseDate(s); ok {
		return t
	}
	return def
}

// FormatDate renders a time as a calendar date.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
