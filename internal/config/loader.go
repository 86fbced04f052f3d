package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

const (
	// ConfigDir is the directory name under ~/.config
	ConfigDir = "vault"
	// ConfigFile is the config file name
	ConfigFile = "config.json"
)

// Environment variables that override secrets from the dotfile.
const (
	EnvGitHubToken      = "VAULT_GITHUB_TOKEN"
	EnvGitHubTokenAlt   = "GITHUB_TOKEN"
	EnvGeminiAPIKey     = "GEMINI_API_KEY"
	EnvDataDir          = "VAULT_DATA_DIR"
	defaultDataSubdir   = ".local/share/vault"
	defaultConfigSubdir = ".config"
)

// FileSystem abstracts file operations for testability
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
}

// ConfigFileReader implements FileSystem using the real OS for config loading
type ConfigFileReader struct{}

func (ConfigFileReader) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (ConfigFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader handles configuration loading with injected dependencies
type Loader struct {
	fs     FileSystem
	getenv func(string) string
}

// NewLoader creates a production Loader using the real filesystem and environment
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}, getenv: os.Getenv}
}

// NewLoaderWithFS creates a Loader with a custom filesystem and an empty environment (for testing)
func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs, getenv: func(string) string { return "" }}
}

// WithEnv replaces the environment lookup.
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	l.getenv = getenv
	return l
}

// Load reads configuration from ~/.config/vault/config.json
// and merges it with defaults. Dotfile values override defaults.
// Returns default config if dotfile doesn't exist.
// Returns error only for parse errors, permission issues, or validation failures.
//
// NOTE: This implementation unmarshals JSON keys directly over the default configuration.
// This allows explicit zero values (e.g., 0, false, "") in the config file to override defaults.
// Comments and trailing commas are accepted.
func (l *Loader) Load() (*Config, error) {
	homeDir, err := l.fs.UserHomeDir()
	if err != nil {
		cfg := DefaultConfig()
		l.applyEnv(cfg)
		return cfg, nil // Use defaults if can't get home dir
	}
	return l.load(filepath.Join(homeDir, defaultConfigSubdir, ConfigDir, ConfigFile), false)
}

// LoadFrom reads configuration from an explicit path. Unlike Load, a missing file is an error.
func (l *Loader) LoadFrom(path string) (*Config, error) {
	return l.load(path, true)
}

func (l *Loader) load(configPath string, mustExist bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := l.fs.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			l.applyEnv(cfg)
			return cfg, nil // Use defaults if file doesn't exist
		}
		return nil, err // Return error for permission issues
	}

	// Parse JSON directly into the default config struct.
	// This ensures that present keys overwrite defaults (even if zero),
	// while missing keys leave the defaults untouched.
	if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
		return nil, err // Return error for malformed JSON
	}

	l.applyEnv(cfg)

	// Validate the merged configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overlays secrets and paths from the environment. Environment values win over the dotfile.
func (l *Loader) applyEnv(cfg *Config) {
	if v := l.getenv(EnvGitHubToken); v != "" {
		cfg.Remote.Token = v
	} else if v := l.getenv(EnvGitHubTokenAlt); v != "" && cfg.Remote.Token == "" {
		cfg.Remote.Token = v
	}
	if v := l.getenv(EnvDataDir); v != "" {
		cfg.Storage.DataDir = v
	}
}

// DataDir returns the directory holding the durable slot, falling back to
// ~/.local/share/vault when none is configured.
func (c *Config) DataDir() (string, error) {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, defaultDataSubdir), nil
}

// Load is a convenience function using the default loader
func Load() (*Config, error) {
	return NewLoader().Load()
}
