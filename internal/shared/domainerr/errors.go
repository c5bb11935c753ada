package domainerr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means a permission predicate denied the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict surfaces a uniqueness violation from the persistence
	// layer, e.g. two requests racing to create the same author name.
	ErrConflict = errors.New("conflict")
)

// ValidationError means the input violates a domain invariant. It is
// terminal for the operation and never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func Validation(reason string) error {
	return &ValidationError{Reason: reason}
}

func Validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
