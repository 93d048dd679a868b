package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"BizPulse/internal/domain/models"
	domrepo "BizPulse/internal/domain/repository"
	"BizPulse/internal/service/ratelimit"
)

// Applier is the minimal downstream the pipeline needs: apply a session's
// inputs and trigger recomputation.
type Applier interface {
	Apply(ctx context.Context, sessionID string, in models.Inputs) error
}

// InputEvent is one input-change notification from a viewer.
type InputEvent struct {
	SessionID string
	Kind      string // "range", "metric", "window" or "inputs"
	Inputs    models.Inputs
}

// InputPipeline is a middleware between the session stream and the
// recompute stage. It validates events, throttles per session and coalesces
// bursts: a slider drag emits dozens of events, only the newest one in the
// coalescing window reaches the recompute stage.
type InputPipeline struct {
	applier      Applier
	limiter      *ratelimit.Limiter
	metrics      domrepo.Metrics
	coalesce     time.Duration
	maxEPS       float64 // accepted events per second per session
	burst        float64
	applyTimeout time.Duration

	mu      sync.Mutex
	pending map[string]*pendingEvent
	stopped bool
}

type pendingEvent struct {
	timer *time.Timer
	ev    InputEvent
}

type PipelineOption func(*InputPipeline)

// WithCoalesceWindow sets how long the pipeline waits for a burst to settle
// before recomputing.
func WithCoalesceWindow(d time.Duration) PipelineOption {
	return func(p *InputPipeline) {
		if d > 0 {
			p.coalesce = d
		}
	}
}

// WithMaxEventsPerSec sets the per-session accept rate.
func WithMaxEventsPerSec(n int) PipelineOption {
	return func(p *InputPipeline) {
		if n > 0 {
			p.maxEPS = float64(n)
			p.burst = float64(2 * n)
		}
	}
}

// WithApplyTimeout bounds one downstream apply.
func WithApplyTimeout(d time.Duration) PipelineOption {
	return func(p *InputPipeline) {
		if d > 0 {
			p.applyTimeout = d
		}
	}
}

func NewInputPipeline(applier Applier, limiter *ratelimit.Limiter, metrics domrepo.Metrics, opts ...PipelineOption) *InputPipeline {
	p := &InputPipeline{
		applier:      applier,
		limiter:      limiter,
		metrics:      metrics,
		coalesce:     150 * time.Millisecond,
		maxEPS:       20,
		burst:        40,
		applyTimeout: 5 * time.Second,
		pending:      make(map[string]*pendingEvent),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit accepts an input event. Throttled events are dropped silently:
// the client's next accepted event carries the newest state anyway.
func (p *InputPipeline) Submit(_ context.Context, ev InputEvent) error {
	if err := validateEvent(ev); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.limiter.Allow(ev.SessionID, p.burst, p.maxEPS) {
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}
	p.metrics.RecordInputChange(ev.Kind)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return fmt.Errorf("pipeline stopped")
	}
	if cur, ok := p.pending[ev.SessionID]; ok {
		// A burst is in flight; keep only the newest event.
		cur.ev = ev
		return nil
	}
	cur := &pendingEvent{ev: ev}
	id := ev.SessionID
	cur.timer = time.AfterFunc(p.coalesce, func() { p.flush(id) })
	p.pending[id] = cur
	return nil
}

func (p *InputPipeline) flush(sessionID string) {
	p.mu.Lock()
	cur, ok := p.pending[sessionID]
	if ok {
		delete(p.pending, sessionID)
	}
	p.mu.Unlock()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.applyTimeout)
	defer cancel()
	if err := p.applier.Apply(ctx, cur.ev.SessionID, cur.ev.Inputs); err != nil {
		p.metrics.RecordError("pipeline_apply")
	}
}

// Forget drops any pending event and throttle state for a session.
func (p *InputPipeline) Forget(sessionID string) {
	p.mu.Lock()
	if cur, ok := p.pending[sessionID]; ok {
		cur.timer.Stop()
		delete(p.pending, sessionID)
	}
	p.mu.Unlock()
	p.limiter.Forget(sessionID)
}

// Pending reports how many sessions have an unflushed event.
func (p *InputPipeline) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Stop cancels all pending timers. Submitted-but-unflushed events are
// discarded.
func (p *InputPipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.stopped = true
	for id, cur := range p.pending {
		cur.timer.Stop()
		delete(p.pending, id)
	}
}

func validateEvent(ev InputEvent) error {
	if ev.SessionID == "" {
		return fmt.Errorf("session id empty")
	}
	switch ev.Kind {
	case "", "inputs", "range", "metric", "window":
		return nil
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
}
