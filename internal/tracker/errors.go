package tracker

import (
	"errors"
	"fmt"

	"coursecraft-cli/internal/model"
)

var (
	// ErrNotPending is returned when a completion arrives for a key that was
	// never begun (or already finished).
	ErrNotPending = errors.New("operation not pending")

	// ErrNotFactCheckable is returned for fact-checks aimed at anything but a topic.
	ErrNotFactCheckable = errors.New("only topics can be fact-checked")
)

// RemoteOperationError records a failed remote call for one node operation.
type RemoteOperationError struct {
	Key model.OperationKey
	Err error
}

func (e *RemoteOperationError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Key.Kind, e.Key.NodeID, e.Err)
}

func (e *RemoteOperationError) Unwrap() error { return e.Err }
