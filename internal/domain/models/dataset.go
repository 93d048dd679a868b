package models

import "time"

// DateLayout is the calendar-date wire format used everywhere.
const DateLayout = "2006-01-02"

// Row is one daily observation of the business dataset.
// Note: no transport (json/http) concerns here.
type Row struct {
	Date       time.Time
	Sales      float64 // cumulative sales up to and including this day
	Users      int64   // daily active users
	Conversion float64 // daily conversion rate in [0, 1]
}

// DateRange is an inclusive calendar-day interval. A range with End before
// Start selects nothing; downstream stages treat that as an empty view, not
// an error.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a range from day-truncated bounds.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: Day(start), End: Day(end)}
}

// Contains reports whether d falls inside the range (inclusive on both ends).
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// IsEmpty reports whether the range selects no days at all.
func (r DateRange) IsEmpty() bool { return r.End.Before(r.Start) }

// Key returns a canonical string form for cache keying.
func (r DateRange) Key() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// Day truncates t to midnight UTC. All dataset dates are day-truncated.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DatasetMeta describes the generated dataset: row count, covered span and
// the seed it was generated from.
type DatasetMeta struct {
	Rows int
	Span DateRange
	Seed uint64
}
