package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config represents the main configuration for blogctl.
type Config struct {
	BaseDir string        `toml:"base_dir"`
	LogDir  string        `toml:"log_dir"`
	API     APIConfig     `toml:"api"`
	Session SessionConfig `toml:"session"`
}

// APIConfig represents configuration for the remote content API client.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type APIConfig struct {
	Type string `toml:"type"` // "http" (default) or "memory"

	// HTTP-specific fields (only used when Type == "http")
	BaseURL        string `toml:"base_url,omitempty" env:"BLOGCTL_API_URL"`
	TimeoutSeconds int    `toml:"timeout_seconds,omitempty" env:"BLOGCTL_API_TIMEOUT"`
}

// SessionConfig represents configuration for session persistence.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type SessionConfig struct {
	Type string `toml:"type"` // "file" (default) or "memory"
	Path string `toml:"path,omitempty" env:"BLOGCTL_SESSION_PATH"` // only used for type=file
}

// DefaultTimeoutSeconds is applied when the config omits a timeout.
const DefaultTimeoutSeconds = 15

// NewConfig creates a new Config with the provided values and default paths.
func NewConfig(apiBaseURL, baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		API: APIConfig{
			Type:           "http",
			BaseURL:        apiBaseURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Session: SessionConfig{
			Type: "file",
			Path: filepath.Join(baseDir, "session.toml"),
		},
	}
}

// ApplyEnv overlays environment variables onto cfg. Variables:
//   - BLOGCTL_API_URL: remote API base URL
//   - BLOGCTL_API_TIMEOUT: request timeout in seconds
//   - BLOGCTL_SESSION_PATH: session file location
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
