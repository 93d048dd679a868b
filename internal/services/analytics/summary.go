package analytics

import (
	"context"
	"math"
	"sort"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/domain/service"
	"BizPulse/internal/services/stats"
)

// TableSummarizer computes the descriptive-statistics table: count, mean,
// sample standard deviation, min, quartiles and max per numeric column.
// Values are rounded to two digits for display. Quartiles interpolate
// linearly between closest ranks.
type TableSummarizer struct{}

var _ service.Summarizer = (*TableSummarizer)(nil)

func NewTableSummarizer() *TableSummarizer { return &TableSummarizer{} }

// Summarize never fails: an empty view produces count 0 and NaN for every
// other statistic, which transports render as null.
func (s *TableSummarizer) Summarize(_ context.Context, view []models.Row) models.SummaryStats {
	return models.SummaryStats{
		Sales:      summarizeColumn(column(view, models.MetricSales)),
		Users:      summarizeColumn(column(view, models.MetricUsers)),
		Conversion: summarizeColumn(column(view, models.MetricConversion)),
	}
}

func summarizeColumn(xs []float64) models.ColumnSummary {
	c := models.ColumnSummary{Count: len(xs)}
	if len(xs) == 0 {
		nan := math.NaN()
		c.Mean, c.Std, c.Min, c.P25, c.P50, c.P75, c.Max = nan, nan, nan, nan, nan, nan, nan
		return c
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	c.Mean = stats.Round2(stats.Mean(xs))
	c.Std = stats.Round2(stats.StdDev(xs))
	c.Min = stats.Round2(sorted[0])
	c.P25 = stats.Round2(stats.Quantile(sorted, 0.25))
	c.P50 = stats.Round2(stats.Quantile(sorted, 0.50))
	c.P75 = stats.Round2(stats.Quantile(sorted, 0.75))
	c.Max = stats.Round2(sorted[len(sorted)-1])
	return c
}
