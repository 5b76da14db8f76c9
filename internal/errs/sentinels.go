// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across store/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a uniqueness violation (e.g., interest tag already added).
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation indicates user input rejected by a form schema.
	ErrValidation = errors.New("validation failed")

	// ErrStorage indicates the persisted slot could not be read or written.
	ErrStorage = errors.New("storage unavailable")

	// ErrInvalidTransition indicates an action not allowed in the current wizard/flow state.
	ErrInvalidTransition = errors.New("invalid transition")
)
