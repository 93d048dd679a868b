package service

import (
	"context"

	"BizPulse/internal/domain/models"
)

// Filter selects the dataset rows falling inside an inclusive date range.
// Pure: same inputs, same output, no mutation of the input slice.
type Filter interface {
	Apply(ctx context.Context, rows []models.Row, r models.DateRange) []models.Row
}

// Deriver computes the headline scalars and the trend series from a
// filtered view. An empty view yields NaN scalars, never an error.
type Deriver interface {
	Headline(ctx context.Context, view []models.Row) models.DerivedMetrics
	Trend(ctx context.Context, view []models.Row, metric models.Metric, window int) models.TrendSeries
}

// Summarizer computes the descriptive-statistics table from a view.
type Summarizer interface {
	Summarize(ctx context.Context, view []models.Row) models.SummaryStats
}
