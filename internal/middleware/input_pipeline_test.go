package middleware

import (
	"context"
	"sync"
	"testing"
	"time"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/service/ratelimit"
)

type nopMetrics struct{}

func (nopMetrics) RecordRecompute(string, float64) {}
func (nopMetrics) RecordViewCache(bool)            {}
func (nopMetrics) RecordInputChange(string)        {}
func (nopMetrics) RecordSessions(int)              {}
func (nopMetrics) RecordStreamClients(int)         {}
func (nopMetrics) RecordError(string)              {}

type recordingApplier struct {
	mu      sync.Mutex
	applied []models.Inputs
	done    chan struct{}
}

func newRecordingApplier() *recordingApplier {
	return &recordingApplier{done: make(chan struct{}, 16)}
}

func (a *recordingApplier) Apply(_ context.Context, _ string, in models.Inputs) error {
	a.mu.Lock()
	a.applied = append(a.applied, in)
	a.mu.Unlock()
	a.done <- struct{}{}
	return nil
}

func (a *recordingApplier) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.applied)
}

func (a *recordingApplier) last() models.Inputs {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.applied[len(a.applied)-1]
}

func waitApplied(t *testing.T, a *recordingApplier) {
	t.Helper()
	select {
	case <-a.done:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for apply")
	}
}

func TestCoalesceBurst(t *testing.T) {
	a := newRecordingApplier()
	p := NewInputPipeline(a, ratelimit.New(), nopMetrics{}, WithCoalesceWindow(30*time.Millisecond), WithMaxEventsPerSec(1000))
	defer p.Stop()
	ctx := context.Background()

	// A slider drag: many window changes in quick succession.
	for w := 1; w <= 10; w++ {
		ev := InputEvent{SessionID: "s1", Kind: "window", Inputs: models.Inputs{Window: w}}
		if err := p.Submit(ctx, ev); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	waitApplied(t, a)

	if got := a.count(); got != 1 {
		t.Fatalf("applied %d times, want 1 (burst coalesced)", got)
	}
	if got := a.last().Window; got != 10 {
		t.Fatalf("applied window = %d, want the newest value 10", got)
	}
}

func TestSessionsCoalesceIndependently(t *testing.T) {
	a := newRecordingApplier()
	p := NewInputPipeline(a, ratelimit.New(), nopMetrics{}, WithCoalesceWindow(20*time.Millisecond), WithMaxEventsPerSec(1000))
	defer p.Stop()
	ctx := context.Background()

	_ = p.Submit(ctx, InputEvent{SessionID: "s1", Kind: "window", Inputs: models.Inputs{Window: 3}})
	_ = p.Submit(ctx, InputEvent{SessionID: "s2", Kind: "window", Inputs: models.Inputs{Window: 5}})
	waitApplied(t, a)
	waitApplied(t, a)

	if got := a.count(); got != 2 {
		t.Fatalf("applied %d times, want 2 (one per session)", got)
	}
}

func TestValidateEvent(t *testing.T) {
	a := newRecordingApplier()
	p := NewInputPipeline(a, ratelimit.New(), nopMetrics{})
	defer p.Stop()
	ctx := context.Background()

	if err := p.Submit(ctx, InputEvent{Kind: "window"}); err == nil {
		t.Fatalf("expected error for empty session id")
	}
	if err := p.Submit(ctx, InputEvent{SessionID: "s1", Kind: "resize"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if p.Pending() != 0 {
		t.Fatalf("invalid events must not be queued")
	}
}

func TestThrottleDropsSilently(t *testing.T) {
	a := newRecordingApplier()
	// 1 event/sec with no burst headroom: the second submit is throttled.
	lim := ratelimit.New()
	p := NewInputPipeline(a, lim, nopMetrics{}, WithCoalesceWindow(10*time.Millisecond))
	p.maxEPS = 1
	p.burst = 1
	defer p.Stop()
	ctx := context.Background()

	if err := p.Submit(ctx, InputEvent{SessionID: "s1", Inputs: models.Inputs{Window: 1}}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := p.Submit(ctx, InputEvent{SessionID: "s1", Inputs: models.Inputs{Window: 2}}); err != nil {
		t.Fatalf("throttled submit should not error: %v", err)
	}
	waitApplied(t, a)
	if got := a.count(); got != 1 {
		t.Fatalf("applied %d times, want 1", got)
	}
	if got := a.last().Window; got != 1 {
		t.Fatalf("applied window = %d, want 1 (second event throttled)", got)
	}
}

func TestForgetCancelsPending(t *testing.T) {
	a := newRecordingApplier()
	p := NewInputPipeline(a, ratelimit.New(), nopMetrics{}, WithCoalesceWindow(50*time.Millisecond), WithMaxEventsPerSec(1000))
	defer p.Stop()

	_ = p.Submit(context.Background(), InputEvent{SessionID: "s1", Inputs: models.Inputs{Window: 4}})
	p.Forget("s1")
	time.Sleep(80 * time.Millisecond)
	if got := a.count(); got != 0 {
		t.Fatalf("applied %d times, want 0 after forget", got)
	}
}

func TestStopDiscardsPending(t *testing.T) {
	a := newRecordingApplier()
	p := NewInputPipeline(a, ratelimit.New(), nopMetrics{}, WithCoalesceWindow(50*time.Millisecond), WithMaxEventsPerSec(1000))

	_ = p.Submit(context.Background(), InputEvent{SessionID: "s1", Inputs: models.Inputs{Window: 4}})
	p.Stop()
	time.Sleep(80 * time.Millisecond)
	if got := a.count(); got != 0 {
		t.Fatalf("applied %d times, want 0 after stop", got)
	}
	if err := p.Submit(context.Background(), InputEvent{SessionID: "s1"}); err == nil {
		t.Fatalf("submit after stop should error")
	}
}
