package loadgen

import "errors"

// Sentinel kinds for load runs.
var (
	ErrUnhealthy      = errors.New("service unhealthy")
	ErrUnexpectedCode = errors.New("unexpected status code")
)
