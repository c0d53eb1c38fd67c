package outline

import (
	"fmt"

	"coursecraft-cli/internal/model"
)

// AddressingError reports a path or node identity that no longer resolves in the
// snapshot it was applied to (typically a stale path after a reorder).
type AddressingError struct {
	Path   *model.Path
	NodeID string
	Reason string
}

func (e *AddressingError) Error() string {
	target := e.NodeID
	if e.Path != nil {
		target = "path " + e.Path.String()
		if e.NodeID != "" {
			target += " (node " + e.NodeID + ")"
		}
	} else if target != "" {
		target = "node " + target
	}
	if e.Reason != "" {
		return fmt.Sprintf("cannot address %s: %s", target, e.Reason)
	}
	return fmt.Sprintf("cannot address %s", target)
}

func errPath(p model.Path, reason string) error {
	return &AddressingError{Path: &p, Reason: reason}
}

func errNode(id, reason string) error {
	return &AddressingError{NodeID: id, Reason: reason}
}
