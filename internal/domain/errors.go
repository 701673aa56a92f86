package domain

import "errors"

var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation error")
	// ErrDuplicate marks a creation attempt reusing an existing external id.
	ErrDuplicate = errors.New("duplicate request")
	// ErrNotFound marks an unknown id or external id.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks an illegal status transition or a lost optimistic-lock race.
	ErrConflict = errors.New("conflict")
	// ErrPublish marks an event emission failure after the state change was
	// already durably persisted.
	ErrPublish = errors.New("publish error")
)
