// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables on top of New().
// - Validate reports every problem at once.
package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/mergington/activities/internal/adapters/repository"
	"github.com/mergington/activities/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// LogFile, when set, also writes logs to a rotating file.
	LogFile string `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// EnforceCapacity rejects signups once max_participants is reached.
	EnforceCapacity bool `koanf:"enforce_capacity"`

	// NotifyQueueSize bounds the roster change queue.
	NotifyQueueSize int `koanf:"notify_queue_size"`

	// NotifyWorkers sets the number of roster change workers.
	NotifyWorkers int `koanf:"notify_workers"`

	// Activities replaces the built-in seed when non-empty.
	Activities []model.Activity `koanf:"activities"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":8000",
		EnforceCapacity: false,
		NotifyQueueSize: 1024,
		NotifyWorkers:   2,
	}
}

// Validate returns every configuration problem found, or nil.
func (c *Config) Validate() error {
	var result *multierror.Error

	if strings.TrimSpace(c.Addr) == "" {
		result = multierror.Append(result, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		result = multierror.Append(result, fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		result = multierror.Append(result, fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat))
	}
	if c.NotifyQueueSize < 1 {
		result = multierror.Append(result, fmt.Errorf("%w: notify_queue_size must be positive, got %d", ErrInvalidConfig, c.NotifyQueueSize))
	}
	if c.NotifyWorkers < 1 {
		result = multierror.Append(result, fmt.Errorf("%w: notify_workers must be positive, got %d", ErrInvalidConfig, c.NotifyWorkers))
	}
	if err := repository.ValidateSeed(c.Activities); err != nil {
		result = multierror.Append(result, fmt.Errorf("%w: activities: %w", ErrInvalidConfig, err))
	}

	return result.ErrorOrNil()
}
