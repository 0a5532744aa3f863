package validation

import (
	"errors"

	coregraph "github.com/flowgraph/flowbuilder/internal/core/graph"
)

// Save rule failures. Both are recoverable: the user edits the flow and saves
// again.
var (
	ErrTooFewNodes   = errors.New("fewer than 2 nodes")
	ErrMultipleRoots = errors.New("more than one node with no incoming edge")
)

// User-facing texts of the save rule.
const (
	MessageTooFewNodes   = "Please add at least 2 nodes"
	MessageMultipleRoots = "Cannot save Flow, no node can have empty target handles."
	MessageSaved         = "Saved successfully!"
)

// SaveError reports why a flow cannot be saved. It matches ErrTooFewNodes or
// ErrMultipleRoots through errors.Is.
type SaveError struct {
	Kind    error    `json:"-"`
	Message string   `json:"message"`
	Roots   []string `json:"roots,omitempty"`
}

func (e *SaveError) Error() string {
	return e.Message
}

func (e *SaveError) Unwrap() error {
	return e.Kind
}

// ValidateFlow applies the save rule: a flow needs at least two nodes and at
// most one node without an incoming edge. Isolated nodes count as roots just
// like nodes that only have outgoing edges.
func ValidateFlow(f *coregraph.Flow) error {
	if f == nil || len(f.Nodes) <= 1 {
		return &SaveError{Kind: ErrTooFewNodes, Message: MessageTooFewNodes}
	}

	roots := f.Roots()
	if len(roots) > 1 {
		ids := make([]string, 0, len(roots))
		for _, n := range roots {
			ids = append(ids, n.ID)
		}
		return &SaveError{Kind: ErrMultipleRoots, Message: MessageMultipleRoots, Roots: ids}
	}
	return nil
}
