package task

import "errors"

var (
	// ErrValidation is returned when task input is rejected.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")
	// ErrStorageCorrupt is returned when persisted data cannot be decoded.
	ErrStorageCorrupt = errors.New("stored data is corrupt")
)
