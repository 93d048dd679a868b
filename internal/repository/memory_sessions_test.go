package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/domain/repository"
)

func testDefaults() models.Inputs {
	return models.Inputs{
		Range: models.DateRange{
			Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC),
		},
		Metric: models.MetricSales,
		Window: models.DefaultWindow,
	}
}

func TestSessionCreateDefaults(t *testing.T) {
	s := NewMemorySessions(SessionConfig{}, testDefaults())
	defer s.Close()

	sess, err := s.Create(context.Background(), models.Inputs{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sess.ID == "" {
		t.Fatalf("expected non-empty id")
	}
	def := testDefaults()
	if !sess.Inputs.Range.Start.Equal(def.Range.Start) || !sess.Inputs.Range.End.Equal(def.Range.End) {
		t.Fatalf("range = %v..%v, want dataset span", sess.Inputs.Range.Start, sess.Inputs.Range.End)
	}
	if sess.Inputs.Metric != models.MetricSales {
		t.Fatalf("metric = %s, want sales", sess.Inputs.Metric)
	}
	if sess.Inputs.Window != models.DefaultWindow {
		t.Fatalf("window = %d, want %d", sess.Inputs.Window, models.DefaultWindow)
	}
}

func TestSessionNormalization(t *testing.T) {
	s := NewMemorySessions(SessionConfig{}, testDefaults())
	defer s.Close()

	in := testDefaults()
	in.Metric = models.Metric("revenue")
	in.Window = 99
	sess, err := s.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sess.Inputs.Metric != models.MetricSales {
		t.Fatalf("metric = %s, want normalized default", sess.Inputs.Metric)
	}
	if sess.Inputs.Window != models.MaxWindow {
		t.Fatalf("window = %d, want clamp to %d", sess.Inputs.Window, models.MaxWindow)
	}
}

func TestSessionIsolation(t *testing.T) {
	s := NewMemorySessions(SessionConfig{}, testDefaults())
	defer s.Close()
	ctx := context.Background()

	a, _ := s.Create(ctx, models.Inputs{})
	b, _ := s.Create(ctx, models.Inputs{})

	in := testDefaults()
	in.Metric = models.MetricUsers
	in.Window = 14
	if _, err := s.SetInputs(ctx, a.ID, in); err != nil {
		t.Fatalf("set inputs: %v", err)
	}

	got, err := s.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Inputs.Metric != models.MetricSales || got.Inputs.Window != models.DefaultWindow {
		t.Fatalf("session b changed: %+v", got.Inputs)
	}
}

func TestSessionNotFound(t *testing.T) {
	s := NewMemorySessions(SessionConfig{}, testDefaults())
	defer s.Close()
	ctx := context.Background()

	if _, err := s.Get(ctx, "nope"); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("get err = %v, want ErrSessionNotFound", err)
	}
	if err := s.Delete(ctx, "nope"); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("delete err = %v, want ErrSessionNotFound", err)
	}

	sess, _ := s.Create(ctx, models.Inputs{})
	if err := s.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, sess.ID); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("get after delete err = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	s := NewMemorySessions(SessionConfig{TTL: 20 * time.Millisecond, CleanupInterval: 5 * time.Millisecond}, testDefaults())
	defer s.Close()
	ctx := context.Background()

	sess, _ := s.Create(ctx, models.Inputs{})
	time.Sleep(60 * time.Millisecond)
	if _, err := s.Get(ctx, sess.ID); !errors.Is(err, repository.ErrSessionNotFound) {
		t.Fatalf("get expired err = %v, want ErrSessionNotFound", err)
	}
	if n := s.Count(); n != 0 {
		t.Fatalf("count = %d, want 0", n)
	}
}

func TestSessionLimit(t *testing.T) {
	s := NewMemorySessions(SessionConfig{MaxSessions: 1}, testDefaults())
	defer s.Close()
	ctx := context.Background()

	if _, err := s.Create(ctx, models.Inputs{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, models.Inputs{}); !errors.Is(err, repository.ErrSessionLimit) {
		t.Fatalf("create err = %v, want ErrSessionLimit", err)
	}
}
