// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers defaults, an optional YAML file and GWBADGE_ env vars.
// - Errors are wrapped with ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
)

// Store drivers accepted by StoreDriver.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StoreDriver picks the persisted state backend: memory or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// SQLitePath is the database file used when StoreDriver is sqlite.
	SQLitePath string `koanf:"sqlite_path"`

	// CelebrationMS is the celebration pulse duration in milliseconds.
	CelebrationMS int `koanf:"celebration_ms"`

	// HistoryQueueSize bounds the gameweek summary queue.
	HistoryQueueSize int `koanf:"history_queue_size"`

	// HistoryWorkers sets the number of summary writers.
	HistoryWorkers int `koanf:"history_workers"`

	// MaxBodyBytes caps POST payload size.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		StoreDriver:      StoreMemory,
		SQLitePath:       "gwbadge.db",
		CelebrationMS:    2500,
		HistoryQueueSize: 1024,
		HistoryWorkers:   2,
		MaxBodyBytes:     1 << 20,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.StoreDriver != StoreMemory && c.StoreDriver != StoreSQLite:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	case c.StoreDriver == StoreSQLite && strings.TrimSpace(c.SQLitePath) == "":
		return fmt.Errorf("%w: sqlite_path is required for the sqlite driver", ErrInvalidConfig)
	case c.CelebrationMS <= 0:
		return fmt.Errorf("%w: celebration_ms must be positive", ErrInvalidConfig)
	case c.HistoryQueueSize <= 0:
		return fmt.Errorf("%w: history_queue_size must be positive", ErrInvalidConfig)
	case c.HistoryWorkers <= 0:
		return fmt.Errorf("%w: history_workers must be positive", ErrInvalidConfig)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}
	return nil
}
