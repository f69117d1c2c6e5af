package session

import (
	"path/filepath"
	"testing"

	"blogctl/internal/blog"
	"blogctl/internal/config"
)

func TestNewStoreFromConfig(t *testing.T) {
	clock := blog.RealClock{}

	t.Run("file", func(t *testing.T) {
		store, err := NewStoreFromConfig(config.SessionConfig{
			Type: "file",
			Path: filepath.Join(t.TempDir(), "session.toml"),
		}, clock)
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		if _, ok := store.(*FileStore); !ok {
			t.Errorf("store = %T, want *FileStore", store)
		}
	})

	t.Run("empty type defaults to file", func(t *testing.T) {
		store, err := NewStoreFromConfig(config.SessionConfig{
			Path: filepath.Join(t.TempDir(), "session.toml"),
		}, clock)
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		if _, ok := store.(*FileStore); !ok {
			t.Errorf("store = %T, want *FileStore", store)
		}
	})

	t.Run("file requires path", func(t *testing.T) {
		if _, err := NewStoreFromConfig(config.SessionConfig{Type: "file"}, clock); err == nil {
			t.Error("expected error for missing path")
		}
	})

	t.Run("memory", func(t *testing.T) {
		store, err := NewStoreFromConfig(config.SessionConfig{Type: "memory"}, clock)
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		if _, ok := store.(*MemoryStore); !ok {
			t.Errorf("store = %T, want *MemoryStore", store)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		if _, err := NewStoreFromConfig(config.SessionConfig{Type: "redis"}, clock); err == nil {
			t.Error("expected error for unknown type")
		}
	})
}
