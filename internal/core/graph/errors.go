// Package graph defines domain-specific errors
package graph

import "errors"

// Domain errors - defined once, used everywhere
var (
	// Node errors
	ErrNilNode         = errors.New("node cannot be nil")
	ErrInvalidNodeID   = errors.New("invalid node ID")
	ErrInvalidNodeType = errors.New("invalid node type")
	ErrNodeNotFound    = errors.New("node not found")
	ErrDuplicateNode   = errors.New("duplicate node ID")

	// Edge errors
	ErrNilEdge             = errors.New("edge cannot be nil")
	ErrInvalidSource       = errors.New("invalid source node")
	ErrInvalidTarget       = errors.New("invalid target node")
	ErrSourceNodeNotFound  = errors.New("source node not found")
	ErrTargetNodeNotFound  = errors.New("target node not found")
	ErrEdgeNotFound        = errors.New("edge not found")
	ErrDuplicateEdge       = errors.New("duplicate edge")
	ErrDuplicateEdgeID     = errors.New("duplicate edge ID")
	ErrSelfLoop            = errors.New("self-loops are not allowed")
	ErrIncompatibleSockets = errors.New("edge must run from a source socket to a target socket")
)
