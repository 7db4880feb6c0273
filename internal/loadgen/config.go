// Package loadgen drives a running analytics service with synthetic
// traffic and reports what came back.
package loadgen

import (
	"runtime"
	"time"
)

// Defaults applied by Config.normalize.
const (
	DefaultBaseURL     = "http://localhost:9080"
	DefaultRequests    = 1000
	DefaultJobs        = 20
	DefaultItemsPerJob = 10
	DefaultTimeout     = 30 * time.Second
	DefaultPollTimeout = 2 * time.Minute
	DefaultPollEvery   = 250 * time.Millisecond
)

// Config holds configuration for a load run.
type Config struct {
	BaseURL     string        // Base URL of the service
	Requests    int           // Engine requests spread across all operations
	Jobs        int           // Batch jobs to submit
	ItemsPerJob int           // Submissions per batch job
	Workers     int           // Concurrent requests in flight
	Timeout     time.Duration // Per-request timeout
	PollTimeout time.Duration // How long to wait for jobs to finish
	PollEvery   time.Duration // Delay between job status polls
	Seed        uint64        // Generator seed; same seed, same traffic
	Verbose     bool          // Log every response at debug level
}

func (c *Config) normalize() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Requests < 0 {
		c.Requests = 0
	}
	if c.Jobs < 0 {
		c.Jobs = 0
	}
	if c.ItemsPerJob < 1 {
		c.ItemsPerJob = DefaultItemsPerJob
	}
	if c.Workers < 1 {
		c.Workers = runtime.NumCPU() * 2
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.PollTimeout <= 0 {
		c.PollTimeout = DefaultPollTimeout
	}
	if c.PollEvery <= 0 {
		c.PollEvery = DefaultPollEvery
	}
}
