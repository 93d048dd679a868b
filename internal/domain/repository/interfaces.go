package repository

import (
	"context"
	"errors"

	"BizPulse/internal/domain/models"
)

var (
	// ErrSessionNotFound is returned when a session id is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionLimit is returned when the store is at capacity.
	ErrSessionLimit = errors.New("session limit reached")
)

// DatasetSource provides the immutable dataset generated at startup.
// Rows returns the full ordered dataset; callers must not mutate it.
type DatasetSource interface {
	Rows() []models.Row
	Meta() models.DatasetMeta
}

// SessionStore keeps per-viewer input state. Implementations must isolate
// sessions from each other: updating one never affects another.
type SessionStore interface {
	Create(ctx context.Context, in models.Inputs) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	SetInputs(ctx context.Context, id string, in models.Inputs) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	Count() int
	Close() error
}

// ViewProvider returns the filtered view for a range, memoized per distinct
// range so the downstream stages of one recomputation share a single scan.
type ViewProvider interface {
	View(ctx context.Context, r models.DateRange) []models.Row
	Invalidate()
}

type Metrics interface {
	RecordRecompute(stage string, seconds float64)
	RecordViewCache(hit bool)
	RecordInputChange(kind string)
	RecordSessions(count int)
	RecordStreamClients(count int)
	RecordError(kind string)
}
