package common

import (
	"errors"
	"fmt"
)

var (
	// repository specific errors
	ErrNotFound = errors.New("not found")

	// auth/ownership errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// timestamp validation
	ErrEmptyTimestamp = errors.New("at least one time field is required")
)

// InvalidFieldError reports a time component outside its allowed range.
type InvalidFieldError struct {
	Field string
	Min   int
	Max   int
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid %s (%d-%d)", e.Field, e.Min, e.Max)
}
