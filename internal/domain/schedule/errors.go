package schedule

import "errors"

// ErrInvalidDuration is returned for an event whose duration is not positive.
var ErrInvalidDuration = errors.New("event duration must be positive")
