package service

import "errors"

// Sentinel kinds returned by Service.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrEmptyBatch    = errors.New("batch has no items")
	ErrBatchTooLarge = errors.New("batch too large")
	ErrBackpressure  = errors.New("job queue full")
	ErrJobNotFound   = errors.New("job not found")
)
