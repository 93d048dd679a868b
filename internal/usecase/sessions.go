package usecase

import (
	"context"

	"BizPulse/internal/domain/models"
	domrepo "BizPulse/internal/domain/repository"
	"BizPulse/internal/service/stream"
	xlogger "BizPulse/pkg/logger"
)

// SessionUsecase ties session state to recomputation: every applied input
// change recomputes the snapshot and fans it out to the session's stream
// subscribers.
type SessionUsecase struct {
	store   domrepo.SessionStore
	dash    *DashboardUsecase
	bus     *stream.Broadcaster
	metrics domrepo.Metrics
	logger  *xlogger.Logger
}

func NewSessionUsecase(
	store domrepo.SessionStore,
	dash *DashboardUsecase,
	bus *stream.Broadcaster,
	metrics domrepo.Metrics,
	logger *xlogger.Logger,
) *SessionUsecase {
	return &SessionUsecase{store: store, dash: dash, bus: bus, metrics: metrics, logger: logger}
}

// Create opens a session seeded with in (zero fields fall back to the
// defaults) and returns it with its first snapshot.
func (u *SessionUsecase) Create(ctx context.Context, in models.Inputs) (*models.Session, *models.DashboardSnapshot, error) {
	sess, err := u.store.Create(ctx, in)
	if err != nil {
		u.metrics.RecordError("session_create")
		return nil, nil, err
	}
	u.metrics.RecordSessions(u.store.Count())
	u.logger.Debug("session created", xlogger.String("session_id", sess.ID))

	snap, err := u.snapshotFor(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	return sess, snap, nil
}

// Get returns the session and refreshes its idle timer.
func (u *SessionUsecase) Get(ctx context.Context, id string) (*models.Session, error) {
	return u.store.Get(ctx, id)
}

// UpdateInputs stores the new inputs, recomputes the snapshot and publishes
// it to the session's stream subscribers.
func (u *SessionUsecase) UpdateInputs(ctx context.Context, id string, in models.Inputs) (*models.Session, *models.DashboardSnapshot, error) {
	sess, err := u.store.SetInputs(ctx, id, in)
	if err != nil {
		return nil, nil, err
	}
	snap, err := u.snapshotFor(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	u.bus.Publish(sess.ID, snap)
	return sess, snap, nil
}

// Apply implements the input pipeline's downstream: apply and fan out,
// discarding the results.
func (u *SessionUsecase) Apply(ctx context.Context, sessionID string, in models.Inputs) error {
	_, _, err := u.UpdateInputs(ctx, sessionID, in)
	return err
}

// Delete drops the session.
func (u *SessionUsecase) Delete(ctx context.Context, id string) error {
	if err := u.store.Delete(ctx, id); err != nil {
		return err
	}
	u.metrics.RecordSessions(u.store.Count())
	u.logger.Debug("session deleted", xlogger.String("session_id", id))
	return nil
}

// Snapshot recomputes the session's current snapshot.
func (u *SessionUsecase) Snapshot(ctx context.Context, id string) (*models.DashboardSnapshot, error) {
	sess, err := u.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.snapshotFor(ctx, sess)
}

// Count reports live sessions.
func (u *SessionUsecase) Count() int {
	return u.store.Count()
}

func (u *SessionUsecase) snapshotFor(ctx context.Context, sess *models.Session) (*models.DashboardSnapshot, error) {
	return u.dash.Snapshot(ctx, SnapshotParams{
		Range:  sess.Inputs.Range,
		Metric: sess.Inputs.Metric,
		Window: sess.Inputs.Window,
	})
}
