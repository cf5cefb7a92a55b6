package sessionsfake

import (
	"context"
	"sync"

	"github.com/nugudi/nugudi-gateway/sessions"
)

var _ sessions.Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory sessions.Store for tests.
type MemoryStore struct {
	mu      sync.RWMutex
	session sessions.Session
	sets    int
}

func NewMemoryStore(initial sessions.Session) *MemoryStore {
	return &MemoryStore{session: initial}
}

func (m *MemoryStore) Get(_ context.Context, f sessions.Field) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Get(f), nil
}

func (m *MemoryStore) Set(_ context.Context, f sessions.Field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Set(f, value)
	m.sets++
	return nil
}

func (m *MemoryStore) ClearField(_ context.Context, f sessions.Field) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Set(f, "")
	return nil
}

func (m *MemoryStore) Session(_ context.Context) (sessions.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session, nil
}

func (m *MemoryStore) SetSession(_ context.Context, s sessions.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range sessions.Fields {
		if v := s.Get(f); v != "" {
			m.session.Set(f, v)
		}
	}
	m.sets++
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = sessions.Session{}
	return nil
}

// Snapshot returns the current session without a context.
func (m *MemoryStore) Snapshot() sessions.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Writes counts Set and SetSession calls.
func (m *MemoryStore) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sets
}
