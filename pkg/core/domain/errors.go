package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("link not found")
	ErrDuplicateCode = errors.New("code already exists")
)

// ValidationError carries a client-facing message for malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// StorageError wraps a failure of the backing store. The wrapped error is
// logged but never shown to clients.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStorage reports whether err is (or wraps) a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// ErrReservedCode is returned for custom codes shadowed by a fixed route. It
// wraps ErrDuplicateCode: the code is taken, just not by a link.
var ErrReservedCode = fmt.Errorf("%w: reserved", ErrDuplicateCode)
