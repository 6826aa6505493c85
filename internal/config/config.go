package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gravitrone/tagpick/internal/api"
	"gopkg.in/yaml.v3"
)

// Defaults applied by Default and by zero-valued fields.
const (
	DefaultLabel      = "Tags"
	DefaultKind       = "tags"
	DefaultDebounceMS = 150
	DefaultLimit      = 20
)

// Config holds CLI configuration stored at ~/.tagpick/config.
type Config struct {
	APIKey    string `yaml:"api_key,omitempty"`
	ServerURL string `yaml:"server_url,omitempty"`
	Username  string `yaml:"username,omitempty"`

	Label            string   `yaml:"label,omitempty"`
	Placeholder      string   `yaml:"placeholder,omitempty"`
	ShowLabel        bool     `yaml:"show_label"`
	Border           bool     `yaml:"border"`
	MaxSelections    int      `yaml:"max_selections,omitempty"`
	AllowUserDefined bool     `yaml:"allow_user_defined"`
	Static           []string `yaml:"static_suggestions,omitempty"`
	StaticHeading    string   `yaml:"static_heading,omitempty"`
	DebounceMS       *int     `yaml:"debounce_ms,omitempty"`

	TaxonomyKind string `yaml:"taxonomy_kind,omitempty"`
	WordsFile    string `yaml:"words_file,omitempty"`
	Limit        int    `yaml:"limit,omitempty"`

	LogFile  string `yaml:"log_file,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Label:     DefaultLabel,
		ShowLabel: true,
		Border:    true,
	}
}

// Path returns the config file path.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tagpick", "config")
}

// LogPath is where interactive sessions log when log_file is unset.
func LogPath() string {
	return filepath.Join(filepath.Dir(Path()), "tagpick.log")
}

// Load reads and parses the config file. Returns error if missing or insecure.
func Load() (*Config, error) {
	path := Path()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config not found: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.MaxSelections < 0 {
		return nil, fmt.Errorf("config max_selections must be >= 0, got %d", cfg.MaxSelections)
	}
	if cfg.DebounceMS != nil && *cfg.DebounceMS < 0 {
		return nil, fmt.Errorf("config debounce_ms must be >= 0, got %d", *cfg.DebounceMS)
	}

	return cfg, nil
}

// LoadOrDefault loads the config, falling back to Default when no file exists.
func LoadOrDefault() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := Path()
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// Server returns the API base URL, defaulting to api.DefaultBaseURL.
func (c *Config) Server() string {
	if u := strings.TrimRight(strings.TrimSpace(c.ServerURL), "/"); u != "" {
		return u
	}
	return api.DefaultBaseURL
}

// Debounce returns the suggestion debounce delay.
func (c *Config) Debounce() time.Duration {
	if c.DebounceMS == nil {
		return DefaultDebounceMS * time.Millisecond
	}
	return time.Duration(*c.DebounceMS) * time.Millisecond
}

// Kind returns the taxonomy kind suggestions are drawn from.
func (c *Config) Kind() string {
	if k := strings.TrimSpace(c.TaxonomyKind); k != "" {
		return k
	}
	return DefaultKind
}

// SuggestionLimit returns the per-query suggestion cap.
func (c *Config) SuggestionLimit() int {
	if c.Limit > 0 {
		return c.Limit
	}
	return DefaultLimit
}
