// Package config loads the clausematch configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/clausematch/core"
	"github.com/poiesic/clausematch/embedding"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel  string           `yaml:"log_level"`
	Storage   StorageConfig    `yaml:"storage"`
	Embedding embedding.Config `yaml:"embedding"`
	Matching  MatchingConfig   `yaml:"matching"`
	Search    SearchConfig     `yaml:"search"`
}

// StorageConfig holds the database location.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// MatchingConfig holds comparison thresholds and worker settings.
// Omitting both thresholds selects the defaults; setting only
// primary_threshold disables the lexical filter.
type MatchingConfig struct {
	core.MatchingOptions `yaml:",inline"`
	// EarlyExitWindow of 0 disables the early exit; nil selects the default.
	EarlyExitWindow *int `yaml:"early_exit_window,omitempty"`
	PoolSize        int  `yaml:"pool_size"`
}

// SearchConfig holds defaults for free-text chunk search.
type SearchConfig struct {
	MinSimilarity float64 `yaml:"min_similarity"`
	Limit         int     `yaml:"limit"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, filepath.Dir(path))

	return &cfg, nil
}

// LoadOrDefault loads path if it exists and returns the defaults otherwise.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, ".")
	return &cfg
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	if c.Storage.DatabasePath == "" {
		return errors.New("config: storage.database_path is required")
	}
	if err := c.Matching.Validate(); err != nil {
		return fmt.Errorf("config: matching: %w", err)
	}
	if c.Matching.EarlyExitWindow != nil && *c.Matching.EarlyExitWindow < 0 {
		return errors.New("config: matching.early_exit_window must not be negative")
	}
	if c.Search.MinSimilarity < -1 || c.Search.MinSimilarity > 1 {
		return fmt.Errorf("config: search.min_similarity %v outside [-1, 1]", c.Search.MinSimilarity)
	}
	if c.Search.Limit < 1 {
		return errors.New("config: search.limit must be at least 1")
	}
	if err := c.Embedding.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// DefaultPath returns the config file location under the home directory.
func DefaultPath() string {
	return expandPath(filepath.Join(".clausematch", "config.yaml"), ".")
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
