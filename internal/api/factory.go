package api

import (
	"fmt"
	"time"

	"blogctl/internal/blog"
	"blogctl/internal/config"
)

// NewClientFromConfig creates an API implementation based on the config type.
func NewClientFromConfig(cfg config.APIConfig, logger blog.Logger) (blog.API, error) {
	switch cfg.Type {
	case "", "http":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("http api requires base_url to be set")
		}
		timeout := cfg.TimeoutSeconds
		if timeout <= 0 {
			timeout = config.DefaultTimeoutSeconds
		}
		return NewClient(cfg.BaseURL, time.Duration(timeout)*time.Second, logger), nil
	case "memory":
		return NewMemory(blog.RealClock{}), nil
	default:
		return nil, fmt.Errorf("unknown api type: %s", cfg.Type)
	}
}
