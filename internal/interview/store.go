package interview

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for operations on an unknown session id.
var ErrSessionNotFound = errors.New("interview: session not found")

// Store is the session persistence boundary. The in-memory implementation
// below is the only one today; the interface exists so a durable backend
// can replace it without touching the orchestrator.
//
// Update is last-writer-wins. Turn ordering within one session is enforced
// by the caller; concurrent turns on the same id are a known race the
// store does not arbitrate.
type Store interface {
	Create(s *Session)
	Get(id uuid.UUID) (*Session, error)
	Update(s *Session)
	Delete(id uuid.UUID)
}

// MemoryStore keeps sessions in a mutex-guarded map. Contents are lost on
// process restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[uuid.UUID]*Session)}
}

// Create registers a new session under its id.
func (m *MemoryStore) Create(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}

// Get returns the session for id, or ErrSessionNotFound.
func (m *MemoryStore) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Update stores the session record, replacing any previous value.
func (m *MemoryStore) Update(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}

// Delete removes the session. Deleting an unknown id is a no-op.
func (m *MemoryStore) Delete(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len reports the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
