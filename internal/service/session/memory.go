package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process. Entries idle longer than ttl are
// treated as missing; Save sweeps them out at most once per ttl.
type MemoryStore struct {
	sessions  map[string]Session
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
	mu        sync.RWMutex
}

// NewMemoryStore creates an in-process session store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get retrieves a copy of the session stored under id.
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if m.expired(sess, m.now()) {
		_ = m.Delete(context.Background(), id)
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// Save stores a copy of sess and refreshes its idle timer.
func (m *MemoryStore) Save(_ context.Context, sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.ttl > 0 && now.Sub(m.lastSweep) >= m.ttl {
		m.sweepLocked(now)
	}

	sess.UpdatedAt = now
	m.sessions[sess.ID] = *sess
	return nil
}

// Delete removes a session.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports how many sessions are held, expired ones included until swept.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) sweepLocked(now time.Time) {
	for id, sess := range m.sessions {
		if m.expired(sess, now) {
			delete(m.sessions, id)
		}
	}
	m.lastSweep = now
}

func (m *MemoryStore) expired(sess Session, now time.Time) bool {
	return m.ttl > 0 && now.Sub(sess.UpdatedAt) > m.ttl
}
