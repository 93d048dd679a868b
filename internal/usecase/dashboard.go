package usecase

import (
	"context"
	"time"

	"BizPulse/internal/domain/models"
	domrepo "BizPulse/internal/domain/repository"
	domsvc "BizPulse/internal/domain/service"
	"BizPulse/pkg/format"
)

// DashboardUsecase owns one recomputation cycle: memoized filter, derived
// metrics, summary table and raw rows, composed into a snapshot. Stages run
// sequentially; with at most a few hundred rows a full recompute per input
// change is cheaper than any incremental scheme.
type DashboardUsecase struct {
	dataset    domrepo.DatasetSource
	views      domrepo.ViewProvider
	deriver    domsvc.Deriver
	summarizer domsvc.Summarizer
	metrics    domrepo.Metrics
}

func NewDashboardUsecase(
	dataset domrepo.DatasetSource,
	views domrepo.ViewProvider,
	deriver domsvc.Deriver,
	summarizer domsvc.Summarizer,
	metrics domrepo.Metrics,
) *DashboardUsecase {
	return &DashboardUsecase{
		dataset:    dataset,
		views:      views,
		deriver:    deriver,
		summarizer: summarizer,
		metrics:    metrics,
	}
}

// SnapshotParams select the slice of the dashboard to compute. Zero-value
// fields fall back to the dataset span, the default metric and the default
// window.
type SnapshotParams struct {
	Range  models.DateRange
	Metric models.Metric
	Window int
}

func (u *DashboardUsecase) normalize(p SnapshotParams) SnapshotParams {
	span := u.dataset.Meta().Span
	if p.Range.Start.IsZero() {
		p.Range.Start = span.Start
	}
	if p.Range.End.IsZero() {
		p.Range.End = span.End
	}
	p.Metric = models.NormalizeMetric(string(p.Metric))
	if p.Window == 0 {
		p.Window = models.DefaultWindow
	}
	p.Window = models.ClampWindow(p.Window)
	return p
}

// GetFilteredView returns the memoized view for a range. The slice is
// shared between callers and must be treated as read-only.
func (u *DashboardUsecase) GetFilteredView(ctx context.Context, r models.DateRange) []models.Row {
	return u.views.View(ctx, r)
}

// TotalSalesText renders the latest cumulative sales of the view as
// currency, "no data" when the view is empty.
func (u *DashboardUsecase) TotalSalesText(ctx context.Context, view []models.Row) string {
	return format.Money(u.deriver.Headline(ctx, view).TotalSales)
}

// AvgUsersText renders the mean daily users as a whole number.
func (u *DashboardUsecase) AvgUsersText(ctx context.Context, view []models.Row) string {
	return format.Count(u.deriver.Headline(ctx, view).AvgUsers)
}

// ConversionRateText renders the mean conversion rate as a percentage.
func (u *DashboardUsecase) ConversionRateText(ctx context.Context, view []models.Row) string {
	return format.Percent(u.deriver.Headline(ctx, view).AvgConversion)
}

// GetTrendSeries computes the daily series and its moving average.
func (u *DashboardUsecase) GetTrendSeries(ctx context.Context, view []models.Row, metric models.Metric, window int) models.TrendSeries {
	return u.deriver.Trend(ctx, view, models.NormalizeMetric(string(metric)), window)
}

// GetSummaryTable computes the descriptive statistics of the view.
func (u *DashboardUsecase) GetSummaryTable(ctx context.Context, view []models.Row) models.SummaryStats {
	return u.summarizer.Summarize(ctx, view)
}

// GetRawRows returns the view rows for grid display, optionally capped.
// Row selection is a presentation concern and does not exist here.
func (u *DashboardUsecase) GetRawRows(_ context.Context, view []models.Row, limit int) []models.Row {
	if limit > 0 && limit < len(view) {
		return view[:limit]
	}
	return view
}

// Meta describes the loaded dataset, e.g. for date-picker bounds.
func (u *DashboardUsecase) Meta() models.DatasetMeta {
	return u.dataset.Meta()
}

// DefaultInputs are the controls of a fresh session: full span, sales,
// 7-day window.
func (u *DashboardUsecase) DefaultInputs() models.Inputs {
	return models.Inputs{
		Range:  u.dataset.Meta().Span,
		Metric: models.DefaultMetric(),
		Window: models.DefaultWindow,
	}
}

// Snapshot runs one full recomputation cycle and composes everything a
// dashboard render needs. It never fails: empty views produce "no data"
// cards, count-0 summaries and an empty grid.
func (u *DashboardUsecase) Snapshot(ctx context.Context, p SnapshotParams) (*models.DashboardSnapshot, error) {
	p = u.normalize(p)

	start := time.Now()
	view := u.views.View(ctx, p.Range)
	u.metrics.RecordRecompute("filter", time.Since(start).Seconds())

	start = time.Now()
	derived := u.deriver.Headline(ctx, view)
	trend := u.deriver.Trend(ctx, view, p.Metric, p.Window)
	u.metrics.RecordRecompute("derive", time.Since(start).Seconds())

	start = time.Now()
	summary := u.summarizer.Summarize(ctx, view)
	u.metrics.RecordRecompute("summary", time.Since(start).Seconds())

	return &models.DashboardSnapshot{
		GeneratedAt: time.Now(),
		Inputs:      models.Inputs{Range: p.Range, Metric: p.Metric, Window: p.Window},
		RowCount:    len(view),
		Derived:     derived,
		Cards: models.HeadlineCards{
			TotalSales:     format.Money(derived.TotalSales),
			AvgUsers:       format.Count(derived.AvgUsers),
			ConversionRate: format.Percent(derived.AvgConversion),
		},
		Trend:   trend,
		Summary: summary,
		Rows:    view,
	}, nil
}
