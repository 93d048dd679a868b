package analytics

import (
	"context"
	"sort"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/domain/service"
)

// RangeFilter selects the rows falling inside an inclusive date range.
// The dataset is sorted ascending by date, so both bounds are located by
// binary search and the view is a fresh copy of the matching subsequence.
type RangeFilter struct{}

var _ service.Filter = (*RangeFilter)(nil)

func NewRangeFilter() *RangeFilter { return &RangeFilter{} }

// Apply returns all and only rows with Start <= date <= End, in dataset
// order. An inverted or non-overlapping range yields an empty view, which
// every downstream stage handles as a valid state.
func (f *RangeFilter) Apply(_ context.Context, rows []models.Row, r models.DateRange) []models.Row {
	if len(rows) == 0 || r.IsEmpty() {
		return []models.Row{}
	}
	lo := sort.Search(len(rows), func(i int) bool { return !rows[i].Date.Before(r.Start) })
	hi := sort.Search(len(rows), func(i int) bool { return rows[i].Date.After(r.End) })
	if lo >= hi {
		return []models.Row{}
	}
	view := make([]models.Row, hi-lo)
	copy(view, rows[lo:hi])
	return view
}
