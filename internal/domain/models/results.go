package models

import "time"

// DerivedMetrics are the headline scalars computed from one filtered view.
// On an empty view the float fields are NaN; transports render them as null
// or "no data", never as an error.
type DerivedMetrics struct {
	RowCount      int
	TotalSales    float64 // latest cumulative sales inside the view
	AvgUsers      float64
	AvgConversion float64
}

// TrendSeries carries the plotted daily values and their trailing moving
// average, aligned index-for-index with Dates. Positions with fewer than
// Window observations available are NaN: a 7-day average needs 7 days.
type TrendSeries struct {
	Metric    Metric
	Window    int
	Dates     []time.Time
	Daily     []float64
	MovingAvg []float64
}

// ColumnSummary is one column of the descriptive-statistics table.
// Every field except Count is NaN when the view is empty. Values are
// rounded to two digits for display.
type ColumnSummary struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	P25   float64
	P50   float64
	P75   float64
	Max   float64
}

// SummaryStats is the describe()-style table over the numeric columns.
type SummaryStats struct {
	Sales      ColumnSummary
	Users      ColumnSummary
	Conversion ColumnSummary
}

// Column returns the summary for metric m.
func (s SummaryStats) Column(m Metric) ColumnSummary {
	switch m {
	case MetricUsers:
		return s.Users
	case MetricConversion:
		return s.Conversion
	default:
		return s.Sales
	}
}

// HeadlineCards are the formatted value-box texts at the top of the page.
type HeadlineCards struct {
	TotalSales     string // "$104,522"
	AvgUsers       string // "501"
	ConversionRate string // "2.98%"
}

// DashboardSnapshot is everything one render of the dashboard needs:
// the echoed inputs, headline cards, trend series, summary table and the
// raw rows for the grid.
type DashboardSnapshot struct {
	GeneratedAt time.Time
	Inputs      Inputs
	RowCount    int
	Derived     DerivedMetrics
	Cards       HeadlineCards
	Trend       TrendSeries
	Summary     SummaryStats
	Rows        []Row
}
