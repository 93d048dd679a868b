package repository

import (
	"context"
	"sync"
	"time"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/domain/repository"

	"github.com/google/uuid"
)

// SessionConfig controls the in-memory session store.
type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	MaxSessions     int
}

func (c *SessionConfig) applyDefaults() {
	if c.TTL <= 0 {
		c.TTL = 30 * time.Minute
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = time.Minute
	}
	if c.MaxSessions <= 0 {
		c.MaxSessions = 1000
	}
}

// MemorySessions keeps sessions in a map guarded by a RWMutex. A janitor
// goroutine evicts sessions idle longer than the TTL. Stored inputs are
// always valid: metric normalized, window clamped.
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	defaults models.Inputs
	ttl      time.Duration
	max      int
	ticker   *time.Ticker
	done     chan struct{}
}

var _ repository.SessionStore = (*MemorySessions)(nil)

// NewMemorySessions creates the store. defaults seed every new session and
// normally carry the full dataset span, the sales metric and a 7-day window.
func NewMemorySessions(cfg SessionConfig, defaults models.Inputs) *MemorySessions {
	cfg.applyDefaults()

	s := &MemorySessions{
		sessions: make(map[string]*models.Session),
		defaults: defaults,
		ttl:      cfg.TTL,
		max:      cfg.MaxSessions,
		ticker:   time.NewTicker(cfg.CleanupInterval),
		done:     make(chan struct{}),
	}
	go s.cleanupExpired()
	return s
}

// resolve fills empty fields from the defaults and forces the rest into
// the valid domain.
func (s *MemorySessions) resolve(in models.Inputs) models.Inputs {
	if in.Range.Start.IsZero() && in.Range.End.IsZero() {
		in.Range = s.defaults.Range
	}
	in.Metric = models.NormalizeMetric(string(in.Metric))
	if in.Window == 0 {
		in.Window = s.defaults.Window
	}
	in.Window = models.ClampWindow(in.Window)
	return in
}

func (s *MemorySessions) Create(_ context.Context, in models.Inputs) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) >= s.max {
		return nil, repository.ErrSessionLimit
	}

	now := time.Now()
	sess := &models.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		LastSeen:  now,
		Inputs:    s.resolve(in),
	}
	s.sessions[sess.ID] = sess

	cp := *sess
	return &cp, nil
}

func (s *MemorySessions) Get(_ context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || time.Since(sess.LastSeen) > s.ttl {
		if ok {
			delete(s.sessions, id)
		}
		return nil, repository.ErrSessionNotFound
	}
	sess.LastSeen = time.Now()

	cp := *sess
	return &cp, nil
}

func (s *MemorySessions) SetInputs(_ context.Context, id string, in models.Inputs) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || time.Since(sess.LastSeen) > s.ttl {
		if ok {
			delete(s.sessions, id)
		}
		return nil, repository.ErrSessionNotFound
	}
	sess.Inputs = s.resolve(in)
	sess.LastSeen = time.Now()

	cp := *sess
	return &cp, nil
}

func (s *MemorySessions) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *MemorySessions) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemorySessions) cleanupExpired() {
	for {
		select {
		case <-s.ticker.C:
			s.mu.Lock()
			now := time.Now()
			for id, sess := range s.sessions {
				if now.Sub(sess.LastSeen) > s.ttl {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// Close stops the janitor.
func (s *MemorySessions) Close() error {
	s.ticker.Stop()
	close(s.done)
	return nil
}
