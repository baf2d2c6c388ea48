// Package config assembles entitymaker's runtime configuration from the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"entitymaker/internal/observability/logging"
	envconfig "entitymaker/pkg/config"
)

const (
	defaultWorkers       = 4
	maxWorkers           = 64
	defaultWatchInterval = 200 * time.Millisecond
	minWatchInterval     = 10 * time.Millisecond
	maxWatchInterval     = time.Minute
	defaultFetchTimeout  = 30 * time.Second
	minFetchTimeout      = time.Second
	maxFetchTimeout      = 5 * time.Minute
)

// Config holds all configuration for the command-line tool.
type Config struct {
	// Logging configuration
	LogLevel  string
	LogFormat string

	// Feed import concurrency
	Workers int

	// Per-request timeout when downloading a feed
	FetchTimeout time.Duration

	// Minimum delay between two rebuilds in watch mode
	WatchInterval time.Duration

	// Path of a YAML schema catalog; empty means built-in entities
	SchemaPath string

	// Report builder metrics on exit
	Metrics bool
}

// Load reads the configuration from environment variables.
func Load() Config {
	return Config{
		LogLevel:      envconfig.GetEnvString("LOG_LEVEL", "info"),
		LogFormat:     envconfig.GetEnvString("ENTITYMAKER_LOG_FORMAT", logging.FormatText),
		Workers:       envconfig.GetEnvInt("ENTITYMAKER_WORKERS", defaultWorkers),
		FetchTimeout:  envconfig.GetEnvDuration("ENTITYMAKER_FETCH_TIMEOUT", defaultFetchTimeout),
		WatchInterval: envconfig.GetEnvDuration("ENTITYMAKER_WATCH_INTERVAL", defaultWatchInterval),
		SchemaPath:    envconfig.GetEnvString("ENTITYMAKER_SCHEMA", ""),
		Metrics:       envconfig.GetEnvBool("ENTITYMAKER_METRICS", false),
	}
}

// Validate checks the configuration and reports every problem found.
func (c Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != logging.FormatJSON && c.LogFormat != logging.FormatText {
		errs = append(errs, fmt.Errorf("log format must be %q or %q, got %q",
			logging.FormatJSON, logging.FormatText, c.LogFormat))
	}
	if c.Workers < 1 || c.Workers > maxWorkers {
		errs = append(errs, fmt.Errorf("workers must be between 1 and %d, got %d", maxWorkers, c.Workers))
	}
	if err := envconfig.ValidateDurationRange(c.FetchTimeout, minFetchTimeout, maxFetchTimeout); err != nil {
		errs = append(errs, fmt.Errorf("fetch timeout: %w", err))
	}
	if err := envconfig.ValidateDurationRange(c.WatchInterval, minWatchInterval, maxWatchInterval); err != nil {
		errs = append(errs, fmt.Errorf("watch interval: %w", err))
	}
	return errors.Join(errs...)
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() slog.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}
