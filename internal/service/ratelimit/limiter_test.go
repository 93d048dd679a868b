package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinCapacity(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("s1", 3, 0) {
			t.Fatalf("request %d should pass", i)
		}
	}
	if l.Allow("s1", 3, 0) {
		t.Fatalf("fourth request should be limited")
	}
}

func TestRefill(t *testing.T) {
	l := New()
	if !l.Allow("s1", 1, 100) {
		t.Fatalf("first request should pass")
	}
	if l.Allow("s1", 1, 100) {
		t.Fatalf("second immediate request should be limited")
	}
	time.Sleep(25 * time.Millisecond) // 100/sec refills well over one token
	if !l.Allow("s1", 1, 100) {
		t.Fatalf("request after refill should pass")
	}
}

func TestKeysIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatalf("a should pass")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatalf("b has its own bucket")
	}
}

func TestForgetAndPrune(t *testing.T) {
	l := New()
	_ = l.Allow("a", 1, 0)
	_ = l.Allow("b", 1, 0)
	if l.Size() != 2 {
		t.Fatalf("size = %d, want 2", l.Size())
	}

	l.Forget("a")
	if l.Size() != 1 {
		t.Fatalf("size after forget = %d, want 1", l.Size())
	}

	time.Sleep(15 * time.Millisecond)
	if n := l.Prune(10 * time.Millisecond); n != 1 {
		t.Fatalf("pruned = %d, want 1", n)
	}
	if l.Size() != 0 {
		t.Fatalf("size after prune = %d, want 0", l.Size())
	}
}
