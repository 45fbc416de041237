package session

import (
	"context"
	"log"
	"sync"
	"time"

	"astrocadet/internal/security"
)

// Factory builds the session for a newly issued id
type Factory func(id string) *Session

// Manager owns the live sessions of the HTTP server
type Manager struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	factory     Factory
	idleTimeout time.Duration
	now         func() time.Time
}

func NewManager(factory Factory, idleTimeout time.Duration) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		factory:     factory,
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Create registers a session under a fresh id
func (m *Manager) Create() *Session {
	s := m.factory(security.GenerateSessionID())

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s
}

// Get looks up a live session
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// CleanupIdle closes and forgets sessions with no input for longer than the
// idle timeout. It returns how many were removed.
func (m *Manager) CleanupIdle() int {
	cutoff := m.now().Add(-m.idleTimeout)

	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	return len(idle)
}

// CloseAll stops every session, used on shutdown
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

// Run removes idle sessions every interval until ctx is done
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.CleanupIdle(); n > 0 {
				log.Printf("Cleaned up %d idle sessions", n)
			}
		}
	}
}
