package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"blogctl/internal/blog"
	"blogctl/internal/model"
)

// FileStore persists the session as a plain-text key-value (TOML) file.
// Writes go through a temp file and rename, so a reader never observes a
// half-written credential. The file is created with mode 0600.
type FileStore struct {
	path  string
	clock blog.Clock
}

// NewFileStore creates a FileStore persisting to the given path.
func NewFileStore(path string, clock blog.Clock) *FileStore {
	return &FileStore{path: path, clock: clock}
}

// sessionRecord is the on-disk shape. Fixed keys, no encryption: the
// credential is readable by anyone with access to the file.
type sessionRecord struct {
	AccessToken  string    `toml:"access_token"`
	RefreshToken string    `toml:"refresh_token"`
	UserID       int64     `toml:"user_id"`
	Username     string    `toml:"username"`
	SavedAt      time.Time `toml:"saved_at"`
}

// Load reads the persisted session. A missing file, an undecodable file,
// or a record missing its credential or identity all yield (nil, nil):
// the client simply starts anonymous.
func (s *FileStore) Load() (*model.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var record sessionRecord
	if err := toml.Unmarshal(data, &record); err != nil {
		// Corrupt session data is treated as no session.
		return nil, nil
	}
	if record.AccessToken == "" || record.Username == "" {
		return nil, nil
	}

	return &model.Session{
		AccessToken:  record.AccessToken,
		RefreshToken: record.RefreshToken,
		User:         model.User{ID: record.UserID, Username: record.Username},
	}, nil
}

// Save persists the session atomically via temp file + rename.
func (s *FileStore) Save(session *model.Session) error {
	if session == nil {
		return fmt.Errorf("cannot save a nil session")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "session-*.toml")
	if err != nil {
		return fmt.Errorf("creating temp session file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	record := sessionRecord{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		UserID:       session.User.ID,
		Username:     session.User.Username,
		SavedAt:      s.clock.Now().UTC(),
	}

	if err := toml.NewEncoder(tmp).Encode(record); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("restricting session file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp session file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}

// Clear removes the persisted session. Removing an absent file succeeds.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// Compile-time check that FileStore implements blog.SessionStore
var _ blog.SessionStore = (*FileStore)(nil)
