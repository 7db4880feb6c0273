package repository

import "time"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithRetention sets how long finished jobs are kept. Zero disables pruning.
func WithRetention(d time.Duration) Option {
	return func(s *MemoryStore) {
		if d >= 0 {
			s.retention = d
		}
	}
}

// WithPruneInterval sets how often the background pruner runs.
func WithPruneInterval(d time.Duration) Option {
	return func(s *MemoryStore) {
		if d > 0 {
			s.pruneInterval = d
		}
	}
}

// WithClock sets the time source used to compute the prune cutoff.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}
