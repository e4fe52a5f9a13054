package game

import (
	"context"
	"testing"
	"time"
)

func TestSessionManagerReusesMatch(t *testing.T) {
	sm := NewSessionManager(nil)
	built := 0
	factory := func() *Match {
		built++
		return NewMatch(Options{})
	}

	a := sm.GetOrCreate("guest:1", factory)
	b := sm.GetOrCreate("guest:1", factory)
	if a != b || built != 1 {
		t.Fatalf("expected one match per key, built %d", built)
	}
	sm.GetOrCreate("user:7", factory)
	if sm.Count() != 2 {
		t.Fatalf("count = %d", sm.Count())
	}

	sm.Remove("guest:1")
	if _, ok := sm.Get("guest:1"); ok {
		t.Fatalf("removed match still present")
	}
	if _, err := a.Start(context.Background(), 1); err == nil {
		t.Fatalf("removed match should be closed")
	}
}

func TestCleanupOldSessions(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	now := start
	sm := NewSessionManager(nil)
	factory := func() *Match { return NewMatch(Options{Now: func() time.Time { return now }}) }

	sm.GetOrCreate("old", factory)
	now = start.Add(50 * time.Minute)
	sm.GetOrCreate("fresh", factory)

	removed := sm.CleanupOldSessions(start.Add(70*time.Minute), time.Hour)
	if removed != 1 {
		t.Fatalf("removed %d, want 1", removed)
	}
	if _, ok := sm.Get("fresh"); !ok {
		t.Fatalf("fresh session was removed")
	}
}

func TestCleanupDoesNotBlockLookups(t *testing.T) {
	sm := NewSessionManager(nil)
	busy := sm.GetOrCreate("busy", func() *Match { return NewMatch(Options{}) })

	busy.mu.Lock()
	done := make(chan int, 1)
	go func() { done <- sm.CleanupOldSessions(time.Now(), time.Hour) }()
	time.Sleep(20 * time.Millisecond)

	got := make(chan *Match, 1)
	go func() { got <- sm.GetOrCreate("other", func() *Match { return NewMatch(Options{}) }) }()
	select {
	case <-got:
	case <-time.After(2 * time.Second):
		busy.mu.Unlock()
		t.Fatalf("lookup waited on a locked match")
	}
	busy.mu.Unlock()

	if removed := <-done; removed != 0 {
		t.Fatalf("removed %d active matches", removed)
	}
}

func TestCountdown(t *testing.T) {
	c := NewCountdown(300*time.Millisecond, 0)
	if c.Step() != DefaultTickStep {
		t.Fatalf("step = %v", c.Step())
	}
	if c.Tick() || c.Tick() {
		t.Fatalf("expired early at %v", c.Remaining())
	}
	if !c.Tick() || c.Remaining() != 0 {
		t.Fatalf("expected expiry, remaining %v", c.Remaining())
	}
	if !c.Tick() || c.Remaining() != 0 {
		t.Fatalf("countdown went negative")
	}
	c.Reset()
	if c.Expired() || c.Remaining() != 300*time.Millisecond {
		t.Fatalf("reset failed: %v", c.Remaining())
	}
}
