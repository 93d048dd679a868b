package models

import (
	"fmt"
	"math"
	"time"
)

// Requests and wire payloads for dashboard HTTP endpoints. Defined in domain
// for consistency and reuse (REST and the websocket stream share them).

type SnapshotRequest struct {
	From   string `query:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `query:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
	Metric string `query:"metric" json:"metric" default:"sales" validate:"oneof=sales users conversion"`
	Window int    `query:"window" json:"window" default:"7" validate:"gte=1,lte=30"`
}

type TrendRequest struct {
	From   string `query:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `query:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
	Metric string `query:"metric" json:"metric" default:"sales" validate:"oneof=sales users conversion"`
	Window int    `query:"window" json:"window" default:"7" validate:"gte=1,lte=30"`
}

type SummaryRequest struct {
	From string `query:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
}

type RowsRequest struct {
	From  string `query:"from" json:"from" validate:"omitempty,datetime=2006-01-02"`
	To    string `query:"to" json:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit int    `query:"limit" json:"limit" default:"0" validate:"gte=0,lte=10000"`
}

type CreateSessionRequest struct {
	From   string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `json:"to" validate:"omitempty,datetime=2006-01-02"`
	Metric string `json:"metric" validate:"omitempty,oneof=sales users conversion"`
	Window *int   `json:"window" validate:"omitempty,gte=1,lte=30"`
}

// UpdateInputsRequest is a partial update: absent fields keep their
// current values.
type UpdateInputsRequest struct {
	From   string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `json:"to" validate:"omitempty,datetime=2006-01-02"`
	Metric string `json:"metric" validate:"omitempty,oneof=sales users conversion"`
	Window *int   `json:"window" validate:"omitempty,gte=1,lte=30"`
}

// Wire payloads. Undefined statistics travel as null, never NaN.

type RowPayload struct {
	Date       string  `json:"date"`
	Sales      float64 `json:"sales"`
	Users      int64   `json:"users"`
	Conversion float64 `json:"conversion"`
}

type TrendPointPayload struct {
	Date      string   `json:"date"`
	Value     float64  `json:"value"`
	MovingAvg *float64 `json:"moving_avg"`
}

type TrendPayload struct {
	Metric     string              `json:"metric"`
	Title      string              `json:"title"`
	DailyLabel string              `json:"daily_label"`
	MALabel    string              `json:"ma_label"`
	Window     int                 `json:"window"`
	Points     []TrendPointPayload `json:"points"`
}

type ColumnSummaryPayload struct {
	Count int      `json:"count"`
	Mean  *float64 `json:"mean"`
	Std   *float64 `json:"std"`
	Min   *float64 `json:"min"`
	P25   *float64 `json:"p25"`
	P50   *float64 `json:"p50"`
	P75   *float64 `json:"p75"`
	Max   *float64 `json:"max"`
}

type SummaryPayload struct {
	Sales      ColumnSummaryPayload `json:"sales"`
	Users      ColumnSummaryPayload `json:"users"`
	Conversion ColumnSummaryPayload `json:"conversion"`
}

type CardsPayload struct {
	TotalSales     string `json:"total_sales"`
	AvgUsers       string `json:"avg_users"`
	ConversionRate string `json:"conversion_rate"`
}

type SnapshotPayload struct {
	GeneratedAt   string         `json:"generated_at"`
	From          string         `json:"from"`
	To            string         `json:"to"`
	Metric        string         `json:"metric"`
	Window        int            `json:"window"`
	RowCount      int            `json:"row_count"`
	Cards         CardsPayload   `json:"cards"`
	TotalSales    *float64       `json:"total_sales"`
	AvgUsers      *float64       `json:"avg_users"`
	AvgConversion *float64       `json:"avg_conversion"`
	Trend         TrendPayload   `json:"trend"`
	Summary       SummaryPayload `json:"summary"`
	Rows          []RowPayload   `json:"rows"`
}

type SessionPayload struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	LastSeen  string `json:"last_seen"`
	From      string `json:"from"`
	To        string `json:"to"`
	Metric    string `json:"metric"`
	Window    int    `json:"window"`
}

type DatasetMetaPayload struct {
	Rows int    `json:"rows"`
	From string `json:"from"`
	To   string `json:"to"`
	Seed uint64 `json:"seed"`
}

// SessionSnapshotPayload pairs a session with its freshly computed snapshot.
type SessionSnapshotPayload struct {
	Session  *SessionPayload  `json:"session"`
	Snapshot *SnapshotPayload `json:"snapshot"`
}

// Nullable maps NaN to nil so undefined values marshal as JSON null.
func Nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func NewRowPayloads(rows []Row) []RowPayload {
	out := make([]RowPayload, len(rows))
	for i, r := range rows {
		out[i] = RowPayload{
			Date:       r.Date.Format(DateLayout),
			Sales:      r.Sales,
			Users:      r.Users,
			Conversion: r.Conversion,
		}
	}
	return out
}

func NewTrendPayload(t TrendSeries) TrendPayload {
	points := make([]TrendPointPayload, len(t.Dates))
	for i, d := range t.Dates {
		points[i] = TrendPointPayload{
			Date:      d.Format(DateLayout),
			Value:     t.Daily[i],
			MovingAvg: Nullable(t.MovingAvg[i]),
		}
	}
	return TrendPayload{
		Metric:     string(t.Metric),
		Title:      fmt.Sprintf("%s Over Time", t.Metric.Label()),
		DailyLabel: "Daily",
		MALabel:    fmt.Sprintf("%d-day MA", t.Window),
		Window:     t.Window,
		Points:     points,
	}
}

func newColumnSummaryPayload(c ColumnSummary) ColumnSummaryPayload {
	return ColumnSummaryPayload{
		Count: c.Count,
		Mean:  Nullable(c.Mean),
		Std:   Nullable(c.Std),
		Min:   Nullable(c.Min),
		P25:   Nullable(c.P25),
		P50:   Nullable(c.P50),
		P75:   Nullable(c.P75),
		Max:   Nullable(c.Max),
	}
}

func NewSummaryPayload(s SummaryStats) SummaryPayload {
	return SummaryPayload{
		Sales:      newColumnSummaryPayload(s.Sales),
		Users:      newColumnSummaryPayload(s.Users),
		Conversion: newColumnSummaryPayload(s.Conversion),
	}
}

func NewSnapshotPayload(s *DashboardSnapshot) *SnapshotPayload {
	return &SnapshotPayload{
		GeneratedAt:   s.GeneratedAt.UTC().Format(time.RFC3339),
		From:          s.Inputs.Range.Start.Format(DateLayout),
		To:            s.Inputs.Range.End.Format(DateLayout),
		Metric:        string(s.Inputs.Metric),
		Window:        s.Inputs.Window,
		RowCount:      s.RowCount,
		Cards:         CardsPayload(s.Cards),
		TotalSales:    Nullable(s.Derived.TotalSales),
		AvgUsers:      Nullable(s.Derived.AvgUsers),
		AvgConversion: Nullable(s.Derived.AvgConversion),
		Trend:         NewTrendPayload(s.Trend),
		Summary:       NewSummaryPayload(s.Summary),
		Rows:          NewRowPayloads(s.Rows),
	}
}

func NewSessionPayload(s *Session) *SessionPayload {
	return &SessionPayload{
		ID:        s.ID,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
		LastSeen:  s.LastSeen.UTC().Format(time.RFC3339),
		From:      s.Inputs.Range.Start.Format(DateLayout),
		To:        s.Inputs.Range.End.Format(DateLayout),
		Metric:    string(s.Inputs.Metric),
		Window:    s.Inputs.Window,
	}
}

func NewDatasetMetaPayload(m DatasetMeta) DatasetMetaPayload {
	return DatasetMetaPayload{
		Rows: m.Rows,
		From: m.Span.Start.Format(DateLayout),
		To:   m.Span.End.Format(DateLayout),
		Seed: m.Seed,
	}
}
