package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound   = errors.New("key not found")
	ErrEmptyKey   = errors.New("empty key")
	ErrClosed     = errors.New("store closed")
	ErrEmptySquad = errors.New("empty squad id")
)
