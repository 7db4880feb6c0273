package queue

import "errors"

var (
	// ErrFull is returned when the queue is at capacity.
	ErrFull = errors.New("queue full")
	// ErrClosed is returned after the queue has been closed.
	ErrClosed = errors.New("queue closed")
)
