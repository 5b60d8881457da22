package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing name, name already in use by an active tag).
// The wrapped error is usually *Errors, which carries the individual field
// failures. Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned by repo functions when a write violates a
// database uniqueness constraint, e.g. two concurrent saves of the same
// active tag name. Handlers should map this to HTTP 409 Conflict.
var ErrConflict = errors.New("conflict")
