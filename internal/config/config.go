// Package config defines service configuration and how it is loaded.
//
// Conventions:
// - New(ctx) returns a Config holding every default.
// - Load(ctx) layers a YAML file and environment variables on top.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects log output: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the batch job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of batch analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many job ids are remembered for idempotency.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxBatchSize caps the items accepted in one batch job.
	MaxBatchSize int `koanf:"max_batch_size"`

	// JobRetention is how long finished jobs stay queryable.
	JobRetention time.Duration `koanf:"job_retention"`

	// MinBreakMinutes is the default gap between scheduled events.
	MinBreakMinutes int `koanf:"min_break_minutes"`

	// PreferredTime is the default time of day for scheduling:
	// morning, afternoon or evening.
	PreferredTime string `koanf:"preferred_time"`

	// SkipWeekends drops Saturday and Sunday from generated slot grids.
	SkipWeekends bool `koanf:"skip_weekends"`
}

// New creates a Config with defaults. Context is accepted first to follow the
// project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		QueueSize:       1024,
		WorkerCount:     runtime.NumCPU(),
		DedupeSize:      10_000,
		MaxBatchSize:    100,
		JobRetention:    time.Hour,
		MinBreakMinutes: 15,
		PreferredTime:   "morning",
		SkipWeekends:    false,
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.QueueSize < 1:
		return invalid("queue_size must be positive")
	case c.WorkerCount < 1:
		return invalid("worker_count must be positive")
	case c.MaxBatchSize < 1:
		return invalid("max_batch_size must be positive")
	case c.JobRetention < 0:
		return invalid("job_retention must not be negative")
	case c.MinBreakMinutes < 0:
		return invalid("min_break_minutes must not be negative")
	}
	switch c.PreferredTime {
	case "morning", "afternoon", "evening":
	default:
		return invalid("preferred_time must be morning, afternoon or evening")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return invalid("log_format must be text or json")
	}
	return nil
}
