package stream

import (
	"sync"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/domain/repository"
)

const defaultSubscriberBuffer = 8

// Broadcaster fans recomputed snapshots out to the subscribers of a
// session. Publishing never blocks the recompute path: a subscriber whose
// buffer is full misses that snapshot and catches up on the next one.
type Broadcaster struct {
	mu      sync.RWMutex
	subs    map[string]map[chan *models.DashboardSnapshot]struct{}
	buf     int
	metrics repository.Metrics
}

func NewBroadcaster(metrics repository.Metrics) *Broadcaster {
	return &Broadcaster{
		subs:    make(map[string]map[chan *models.DashboardSnapshot]struct{}),
		buf:     defaultSubscriberBuffer,
		metrics: metrics,
	}
}

// Subscribe registers a listener for one session's snapshots. The returned
// cancel func must be called when the listener goes away.
func (b *Broadcaster) Subscribe(sessionID string) (<-chan *models.DashboardSnapshot, func()) {
	ch := make(chan *models.DashboardSnapshot, b.buf)

	b.mu.Lock()
	set, ok := b.subs[sessionID]
	if !ok {
		set = make(map[chan *models.DashboardSnapshot]struct{})
		b.subs[sessionID] = set
	}
	set[ch] = struct{}{}
	n := b.total()
	b.mu.Unlock()

	b.metrics.RecordStreamClients(n)

	cancel := func() {
		b.mu.Lock()
		if set, ok := b.subs[sessionID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(b.subs, sessionID)
			}
		}
		n := b.total()
		b.mu.Unlock()
		b.metrics.RecordStreamClients(n)
	}
	return ch, cancel
}

// Publish delivers snap to every subscriber of the session, dropping it for
// subscribers that cannot keep up.
func (b *Broadcaster) Publish(sessionID string, snap *models.DashboardSnapshot) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs[sessionID] {
		select {
		case ch <- snap:
		default:
			b.metrics.RecordError("stream_backpressure_drop")
		}
	}
}

// Subscribers reports the listener count for one session.
func (b *Broadcaster) Subscribers(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[sessionID])
}

// total must be called with the lock held.
func (b *Broadcaster) total() int {
	n := 0
	for _, set := range b.subs {
		n += len(set)
	}
	return n
}
