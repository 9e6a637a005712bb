package config

import (
	"errors"
)

// Sentinels wrapped by Load and Validate. errors.Is tells an unreadable
// source apart from a bad value.
var (
	ErrInvalidConfig = errors.New("gwbadge: invalid configuration")
	ErrLoadConfig    = errors.New("gwbadge: cannot read configuration")
)
