package config

import (
	"path/filepath"

	"github.com/poiesic/clausematch/embedding"
)

const (
	defaultLogLevel      = "info"
	defaultMinSimilarity = 0.80
	defaultSearchLimit   = 10
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = filepath.Join(".clausematch", "db")
	}

	defaults := embedding.DefaultConfig()
	if cfg.Embedding.Host == "" {
		cfg.Embedding.Host = defaults.Host
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = defaults.Model
	}
	if cfg.Embedding.Token == "" {
		cfg.Embedding.Token = defaults.Token
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = defaults.BatchSize
	}

	cfg.Matching.MatchingOptions = cfg.Matching.WithDefaults()

	if cfg.Search.MinSimilarity == 0 {
		cfg.Search.MinSimilarity = defaultMinSimilarity
	}
	if cfg.Search.Limit == 0 {
		cfg.Search.Limit = defaultSearchLimit
	}
}
