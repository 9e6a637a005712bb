package payload

import "errors"

// Sentinel kinds for payload errors.
var (
	ErrNoData     = errors.New("no payload")
	ErrInvalid    = errors.New("invalid payload")
	ErrInvalidRow = errors.New("invalid stat row")
)
