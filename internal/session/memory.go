package session

import (
	"sync"

	"blogctl/internal/blog"
	"blogctl/internal/model"
)

// MemoryStore is an in-memory implementation of the SessionStore
// interface. Nothing survives the process, making it useful for testing.
// This implementation is safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	session *model.Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored session, or nil when none was saved.
func (m *MemoryStore) Load() (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	session := *m.session
	return &session, nil
}

// Save stores a copy of the session.
func (m *MemoryStore) Save(session *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *session
	m.session = &copied
	return nil
}

// Clear drops the stored session. Idempotent.
func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

// Compile-time check that MemoryStore implements blog.SessionStore
var _ blog.SessionStore = (*MemoryStore)(nil)
