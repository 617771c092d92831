package books

import (
	"errors"
	"fmt"
)

// Registry errors.
var (
	ErrPoolExists    = errors.New("pool already added")
	ErrPoolNotFound  = errors.New("pool not found")
	ErrNoCurrentPool = errors.New("current pool not set")
)

// NotFoundError is returned when no book exists for the requested id.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("did not find book with id: %d", e.ID)
}

// ValidationError is returned when a record fails an invariant check before
// persisting, e.g. a book without any author. No partial write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// BackendError wraps any underlying storage error so upstream collaborators
// never see backend-specific types.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("database error during %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Stable numeric codes the command boundary maps errors to. Registry errors
// occupy the 2x range, store errors the 4x range.
const (
	CodePoolExists    = 20
	CodePoolNotFound  = 21
	CodeNoCurrentPool = 22
	CodeGeneric       = 40
	CodeNotFound      = 41
	CodeBackend       = 42
	CodeValidation    = 43
)

// Code maps an error from this package to its stable numeric code.
// Unrecognized errors map to CodeGeneric.
func Code(err error) int {
	var (
		nf *NotFoundError
		ve *ValidationError
		be *BackendError
	)
	switch {
	case errors.Is(err, ErrPoolExists):
		return CodePoolExists
	case errors.Is(err, ErrPoolNotFound):
		return CodePoolNotFound
	case errors.Is(err, ErrNoCurrentPool):
		return CodeNoCurrentPool
	case errors.As(err, &nf):
		return CodeNotFound
	case errors.As(err, &ve):
		return CodeValidation
	case errors.As(err, &be):
		return CodeBackend
	default:
		return CodeGeneric
	}
}
