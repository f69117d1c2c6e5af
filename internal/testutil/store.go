package testutil

import (
	"blogctl/internal/session"
)

// NewTestSessionStore creates an in-memory session store for testing.
func NewTestSessionStore() *session.MemoryStore {
	return session.NewMemoryStore()
}
