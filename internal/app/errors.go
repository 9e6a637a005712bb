package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrStopped        = errors.New("service stopped")
	ErrInvalidSquad   = errors.New("invalid squad id")
	ErrInvalidPayload = errors.New("invalid payload")
)
