// Package config handles the XDG configuration directory, the client
// settings file, and the persisted session token slot.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "flowlist"

	// SettingsFile is the client settings filename.
	SettingsFile = "config.yaml"

	// TokenFile is the stored session token filename.
	TokenFile = "token"

	// DefaultTimeout is the per-request timeout when the settings file
	// does not override it.
	DefaultTimeout = 10 * time.Second

	// EnvAPIURL overrides the configured API base URL.
	EnvAPIURL = "FLOWLIST_API_URL"
)

// Settings are the values read from config.yaml.
type Settings struct {
	APIBaseURL string        `yaml:"api_base_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Settings are the parsed client settings.
	Settings Settings

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a Config with the default or specified config directory and
// loads config.yaml if present. A missing settings file is not an error;
// the API URL can still come from the environment.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:      dir,
		Settings: Settings{Timeout: DefaultTimeout},
	}
	if err := cfg.loadSettings(); err != nil {
		return nil, err
	}
	if url := os.Getenv(EnvAPIURL); url != "" {
		cfg.Settings.APIBaseURL = url
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func (c *Config) loadSettings() error {
	data, err := os.ReadFile(c.SettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}
	if err := yaml.Unmarshal(data, &c.Settings); err != nil {
		return fmt.Errorf("invalid %s: %w", SettingsFile, err)
	}
	if c.Settings.Timeout <= 0 {
		c.Settings.Timeout = DefaultTimeout
	}
	return nil
}

// SettingsPath returns the path to the client settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// TokenPath returns the path to the stored session token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Token reads the stored session token. Returns "" if none is stored.
func (c *Config) Token() string {
	data, err := os.ReadFile(c.TokenPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// HasToken checks if a session token is stored.
func (c *Config) HasToken() bool {
	return c.Token() != ""
}

// SaveToken persists the session token with mode 0600.
func (c *Config) SaveToken(token string) error {
	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(c.TokenPath(), []byte(token+"\n"), 0600)
}

// RemoveToken deletes the stored session token. Removing an absent token
// is not an error; logout is unconditional.
func (c *Config) RemoveToken() error {
	err := os.Remove(c.TokenPath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
