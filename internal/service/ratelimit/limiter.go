package ratelimit

import (
	"sync"
	"time"
)

// Token bucket per key. Keys are session ids, so buckets are pruned when
// sessions go away or idle out.

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

type Limiter struct {
	mu sync.Mutex
	m  map[string]*bucket
}

func New() *Limiter { return &Limiter{m: make(map[string]*bucket)} }

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.m[key] = b
	}
	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Forget drops the bucket for key.
func (l *Limiter) Forget(key string) {
	l.mu.Lock()
	delete(l.m, key)
	l.mu.Unlock()
}

// Prune removes buckets idle longer than maxIdle and reports how many were
// dropped.
func (l *Limiter) Prune(maxIdle time.Duration) int {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for key, b := range l.m {
		if now.Sub(b.last) > maxIdle {
			delete(l.m, key)
			n++
		}
	}
	return n
}

// Size returns the number of tracked keys.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
