package app

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrBackpressure  = errors.New("audit queue full")
	ErrInvalidWindow = errors.New("invalid audit window")
	ErrEventNotFound = errors.New("event not found in audit")
)
