package analytics

import (
	"context"
	"math"
	"time"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/domain/service"
	"BizPulse/internal/services/stats"
)

// MetricDeriver computes the headline scalars and the trend series from a
// filtered view. Purely functional: no state, no side effects.
type MetricDeriver struct{}

var _ service.Deriver = (*MetricDeriver)(nil)

func NewMetricDeriver() *MetricDeriver { return &MetricDeriver{} }

// Headline computes the latest cumulative sales and the mean users and
// conversion rate of the view. An empty view yields NaN scalars.
func (d *MetricDeriver) Headline(_ context.Context, view []models.Row) models.DerivedMetrics {
	m := models.DerivedMetrics{RowCount: len(view)}
	if len(view) == 0 {
		nan := math.NaN()
		m.TotalSales, m.AvgUsers, m.AvgConversion = nan, nan, nan
		return m
	}
	m.TotalSales = view[len(view)-1].Sales
	m.AvgUsers = stats.Mean(column(view, models.MetricUsers))
	m.AvgConversion = stats.Mean(column(view, models.MetricConversion))
	return m
}

// Trend extracts the daily series for the metric together with its trailing
// moving average. The first window-1 average positions are NaN: a 7-day
// average needs 7 days of data. The window is clamped into bounds.
func (d *MetricDeriver) Trend(_ context.Context, view []models.Row, metric models.Metric, window int) models.TrendSeries {
	window = models.ClampWindow(window)
	dates := make([]time.Time, len(view))
	for i, r := range view {
		dates[i] = r.Date
	}
	daily := column(view, metric)
	return models.TrendSeries{
		Metric:    metric,
		Window:    window,
		Dates:     dates,
		Daily:     daily,
		MovingAvg: stats.RollingMean(daily, window),
	}
}

// column extracts one metric column from a view.
func column(view []models.Row, m models.Metric) []float64 {
	out := make([]float64, len(view))
	for i, r := range view {
		out[i] = m.Value(r)
	}
	return out
}
