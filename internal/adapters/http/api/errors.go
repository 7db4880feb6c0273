package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrValidation   = errors.New("validation failed")
	ErrBackpressure = errors.New("backpressure")
	ErrNotFound     = errors.New("not found")
)
