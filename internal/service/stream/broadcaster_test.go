package stream

import (
	"testing"

	"BizPulse/internal/domain/models"
)

type nopMetrics struct{}

func (nopMetrics) RecordRecompute(string, float64) {}
func (nopMetrics) RecordViewCache(bool)            {}
func (nopMetrics) RecordInputChange(string)        {}
func (nopMetrics) RecordSessions(int)              {}
func (nopMetrics) RecordStreamClients(int)         {}
func (nopMetrics) RecordError(string)              {}

func TestPublishReachesSubscribers(t *testing.T) {
	b := NewBroadcaster(nopMetrics{})
	ch, cancel := b.Subscribe("s1")
	defer cancel()

	snap := &models.DashboardSnapshot{RowCount: 5}
	b.Publish("s1", snap)

	select {
	case got := <-ch:
		if got.RowCount != 5 {
			t.Fatalf("row count = %d, want 5", got.RowCount)
		}
	default:
		t.Fatalf("expected a snapshot on the channel")
	}
}

func TestPublishIsolatedPerSession(t *testing.T) {
	b := NewBroadcaster(nopMetrics{})
	ch1, cancel1 := b.Subscribe("s1")
	defer cancel1()
	ch2, cancel2 := b.Subscribe("s2")
	defer cancel2()

	b.Publish("s1", &models.DashboardSnapshot{})
	if len(ch1) != 1 {
		t.Fatalf("s1 should have received the snapshot")
	}
	if len(ch2) != 0 {
		t.Fatalf("s2 should not have received anything")
	}
}

func TestCancelRemovesSubscriber(t *testing.T) {
	b := NewBroadcaster(nopMetrics{})
	_, cancel := b.Subscribe("s1")
	if b.Subscribers("s1") != 1 {
		t.Fatalf("subscribers = %d, want 1", b.Subscribers("s1"))
	}
	cancel()
	if b.Subscribers("s1") != 0 {
		t.Fatalf("subscribers = %d, want 0 after cancel", b.Subscribers("s1"))
	}
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroadcaster(nopMetrics{})
	ch, cancel := b.Subscribe("s1")
	defer cancel()

	// Overfill the buffer; Publish must never block.
	for i := 0; i < defaultSubscriberBuffer+5; i++ {
		b.Publish("s1", &models.DashboardSnapshot{RowCount: i})
	}
	if len(ch) != defaultSubscriberBuffer {
		t.Fatalf("buffered = %d, want %d", len(ch), defaultSubscriberBuffer)
	}
}
