package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	recomputeDuration *prometheus.HistogramVec
	viewCacheTotal    *prometheus.CounterVec
	inputChanges      *prometheus.CounterVec
	sessionsActive    prometheus.Gauge
	streamClients     prometheus.Gauge
	errorsTotal       *prometheus.CounterVec
}

var (
	newOnce  sync.Once
	recorder *Recorder
)

// New returns the process-wide Prometheus metrics recorder. Instruments
// live on the default registry, so they are created exactly once.
func New() *Recorder {
	newOnce.Do(func() {
		recorder = newRecorder()
	})
	return recorder
}

func newRecorder() *Recorder {
	return &Recorder{
		recomputeDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bizpulse_recompute_duration_seconds",
				Help:    "Duration of snapshot recomputation stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		viewCacheTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizpulse_view_cache_requests_total",
				Help: "Filtered-view cache lookups by result",
			},
			[]string{"result"},
		),
		inputChanges: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizpulse_input_changes_total",
				Help: "Accepted input change events by kind",
			},
			[]string{"kind"},
		),
		sessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "bizpulse_sessions_active",
				Help: "Currently live dashboard sessions",
			},
		),
		streamClients: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "bizpulse_stream_clients",
				Help: "Currently connected stream subscribers",
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordRecompute records the duration of one recomputation stage.
func (r *Recorder) RecordRecompute(stage string, seconds float64) {
	r.recomputeDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordViewCache records a filtered-view cache lookup.
func (r *Recorder) RecordViewCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.viewCacheTotal.WithLabelValues(result).Inc()
}

// RecordInputChange records an accepted input change event.
func (r *Recorder) RecordInputChange(kind string) {
	if kind == "" {
		kind = "inputs"
	}
	r.inputChanges.WithLabelValues(kind).Inc()
}

// RecordSessions records the live session count.
func (r *Recorder) RecordSessions(count int) {
	r.sessionsActive.Set(float64(count))
}

// RecordStreamClients records the connected subscriber count.
func (r *Recorder) RecordStreamClients(count int) {
	r.streamClients.Set(float64(count))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
