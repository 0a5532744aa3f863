package editor

import (
	"errors"
	"fmt"

	"github.com/flowgraph/flowbuilder/internal/core/graph"
	"github.com/flowgraph/flowbuilder/internal/core/nodekind"
)

// Editor errors
var (
	ErrNoSelection      = errors.New("no node selected")
	ErrConnectionLimit  = errors.New("socket accepts no more connections")
	ErrInvalidColorMode = errors.New("invalid color mode")
)

// rejectReason maps a Connect failure onto a short metrics label.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrConnectionLimit):
		return "limit"
	case errors.Is(err, graph.ErrDuplicateEdge):
		return "duplicate"
	case errors.Is(err, graph.ErrSelfLoop):
		return "self_loop"
	case errors.Is(err, graph.ErrIncompatibleSockets):
		return "sockets"
	case errors.Is(err, graph.ErrSourceNodeNotFound), errors.Is(err, graph.ErrTargetNodeNotFound):
		return "not_found"
	case errors.Is(err, nodekind.ErrUnknownKind):
		return "unknown_kind"
	default:
		return "other"
	}
}

func limitError(nodeID string, socket graph.Socket, limit int) error {
	return fmt.Errorf("node %s %s socket (limit %d): %w", nodeID, socket, limit, ErrConnectionLimit)
}
