package catalog

import "errors"

var (
	// ErrDuplicateID is returned when two rules share an id.
	ErrDuplicateID = errors.New("duplicate rule id")
	// ErrInvalidRule is returned for a rule with a bad tier, id or predicate.
	ErrInvalidRule = errors.New("invalid rule")
)
