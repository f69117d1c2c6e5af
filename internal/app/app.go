package app

import (
	"fmt"
	"os"
	"time"

	"blogctl/internal/api"
	"blogctl/internal/blog"
	"blogctl/internal/config"
	"blogctl/internal/session"
)

// App is the application layer between the CLI and the controller.
// It constructs all dependencies from config and manages the log file
// lifecycle on Close.
type App struct {
	Controller *blog.Controller

	cfg     *config.Config
	store   blog.SessionStore
	client  blog.API
	logFile *os.File
}

// New creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "Login", "ListPosts").
// The caller must call Close when done.
func New(cfg *config.Config, operation string) (*App, error) {
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z") + "-" + operation
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	adapter := &slogAdapter{l: logger}

	store, err := session.NewStoreFromConfig(cfg.Session, blog.RealClock{})
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating session store: %w", err)
	}

	client, err := api.NewClientFromConfig(cfg.API, adapter)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating api client: %w", err)
	}

	ctrl := blog.NewController(client, store, adapter, blog.UUIDGenerator{})

	return &App{
		Controller: ctrl,
		cfg:        cfg,
		store:      store,
		client:     client,
		logFile:    logFile,
	}, nil
}

// Close releases the log file.
func (a *App) Close() error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}
