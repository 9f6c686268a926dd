package models

import "errors"

var (
	// ErrValidation marks malformed input: bad time range, missing title or
	// type, or a positive cost that nobody shares.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a reference to an event, trip, profile or invitation
	// that does not exist in the supplied collection or store.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState marks an operation that is well-formed but not allowed
	// in the current state, e.g. toggling payment for an unassigned member.
	ErrInvalidState = errors.New("invalid state")

	// ErrStale is returned by conditional updates when the stored version no
	// longer matches the version that was read.
	ErrStale = errors.New("stale version")
)
