package blog

import "blogctl/internal/model"

// SessionStore persists the authentication credential across restarts.
// It is the only state shared between invocations of the client; the
// controller reads it once at start-up and writes it back on login/logout.
type SessionStore interface {
	// Load returns the persisted session, or nil when none exists.
	// Absent or corrupt persisted data is not an error: both yield
	// (nil, nil) so the client starts anonymous.
	Load() (*model.Session, error)

	// Save persists the credential and user identity atomically from the
	// caller's point of view: a reader never observes one without the other.
	Save(session *model.Session) error

	// Clear removes the persisted session. Idempotent.
	Clear() error
}
