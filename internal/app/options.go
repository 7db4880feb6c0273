package service

import (
	"time"

	"github.com/okian/gradient/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of batch workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the batch job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many job ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxBatchSize caps the items accepted per job.
func WithMaxBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.maxBatchSize = size
		}
	}
}

// WithJobRetention sets how long finished jobs are kept. Zero keeps them
// until the process exits.
func WithJobRetention(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.jobRetention = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source for scheduling and job timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSchedulePreferences sets the scheduling defaults applied when a request
// leaves them unset.
func WithSchedulePreferences(minBreak time.Duration, preferredTime string, skipWeekends bool) Option {
	return func(s *Service) {
		if minBreak >= 0 {
			s.minBreak = minBreak
		}
		if preferredTime != "" {
			s.preferredTime = preferredTime
		}
		s.skipWeekends = skipWeekends
	}
}
