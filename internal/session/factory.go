package session

import (
	"fmt"

	"blogctl/internal/blog"
	"blogctl/internal/config"
)

// NewStoreFromConfig creates a SessionStore implementation based on the config type.
func NewStoreFromConfig(cfg config.SessionConfig, clock blog.Clock) (blog.SessionStore, error) {
	switch cfg.Type {
	case "", "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("file session store requires path to be set")
		}
		return NewFileStore(cfg.Path, clock), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session store type: %s", cfg.Type)
	}
}
