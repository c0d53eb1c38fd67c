package session

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when the same operation is already running on a node.
var ErrBusy = errors.New("operation already in progress")

// ValidationError reports unusable input: missing lessons, out-of-range move
// indices and the like.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
