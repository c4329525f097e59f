package models

import "errors"

// InvalidOperationError reports a domain-rule violation: self-friendship,
// duplicate requests, not-friends, length/format violations, and so on.
// Handlers translate it into a client error; every other error from the
// repositories is an internal failure.
type InvalidOperationError struct {
	Reason string
}

func (e *InvalidOperationError) Error() string { return e.Reason }

// ErrInvalidOperation builds an InvalidOperationError with the given reason.
func ErrInvalidOperation(reason string) error {
	return &InvalidOperationError{Reason: reason}
}

// IsInvalidOperation reports whether err is a domain-rule violation.
func IsInvalidOperation(err error) bool {
	var inv *InvalidOperationError
	return errors.As(err, &inv)
}
