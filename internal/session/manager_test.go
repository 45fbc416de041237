package session

import (
	"testing"
	"time"

	"astrocadet/internal/game"
)

func newTestManager(sched *game.ManualScheduler, idle time.Duration) *Manager {
	m := NewManager(func(id string) *Session {
		return New(id, Options{Scores: &recordingStore{}, Scheduler: sched})
	}, idle)
	m.now = sched.Now
	return m
}

func TestManagerCreateAndGet(t *testing.T) {
	m := newTestManager(game.NewManualScheduler(epoch), time.Minute)

	a := m.Create()
	b := m.Create()

	if a.ID() == "" || a.ID() == b.ID() {
		t.Fatalf("session ids %q and %q should be distinct and non-empty", a.ID(), b.ID())
	}
	if got, ok := m.Get(a.ID()); !ok || got != a {
		t.Error("Get() did not return the created session")
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("Get() found a session that was never created")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestManagerCleanupIdle(t *testing.T) {
	sched := game.NewManualScheduler(epoch)
	m := newTestManager(sched, 10*time.Minute)

	idle := m.Create()
	busy := m.Create()

	sched.Advance(8 * time.Minute)
	busy.Back()
	sched.Advance(5 * time.Minute)

	if n := m.CleanupIdle(); n != 1 {
		t.Fatalf("CleanupIdle() = %d, want 1", n)
	}
	if _, ok := m.Get(idle.ID()); ok {
		t.Error("idle session survived cleanup")
	}
	if _, ok := m.Get(busy.ID()); !ok {
		t.Error("active session was removed")
	}
	if err := idle.OpenNormalMenu(); err == nil {
		t.Error("removed session still accepts input")
	}
}

func TestManagerCloseAll(t *testing.T) {
	m := newTestManager(game.NewManualScheduler(epoch), time.Minute)
	s := m.Create()

	m.CloseAll()

	if m.Len() != 0 {
		t.Errorf("Len() = %d after CloseAll", m.Len())
	}
	if err := s.OpenNormalMenu(); err == nil {
		t.Error("closed session still accepts input")
	}
}
