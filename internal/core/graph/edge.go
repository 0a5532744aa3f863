// Package graph provides edge definitions
package graph

import "fmt"

// Socket identifies a node's connection point.
type Socket string

const (
	// SocketSource is the outgoing connection point of a node
	SocketSource Socket = "source"
	// SocketTarget is the incoming connection point of a node
	SocketTarget Socket = "target"
)

// Valid reports whether s is a known socket role.
func (s Socket) Valid() bool {
	return s == SocketSource || s == SocketTarget
}

// Edge represents a directed connection from one node's source socket to
// another node's target socket.
type Edge struct {
	ID           string `json:"id" msgpack:"id" yaml:"id"`
	Source       string `json:"source" msgpack:"source" yaml:"source"`
	SourceHandle Socket `json:"sourceHandle" msgpack:"sourceHandle" yaml:"sourceHandle"`
	Target       string `json:"target" msgpack:"target" yaml:"target"`
	TargetHandle Socket `json:"targetHandle" msgpack:"targetHandle" yaml:"targetHandle"`
}

// Endpoints identifies what an edge joins. Two edges with equal endpoints are
// duplicates whatever their IDs.
type Endpoints struct {
	Source       string
	SourceHandle Socket
	Target       string
	TargetHandle Socket
}

// EdgeID derives the default identifier of the edge joining the given
// endpoints. The parts are concatenated without a separator, so distinct
// endpoints can map to the same ID when node IDs contain a socket name
// followed by "-" (x -> "ysource-z" and "xsource-y" -> z). Callers that
// mint IDs must check the result is unused; duplicates are detected on
// Endpoints, never on the derived ID.
func EdgeID(source string, sourceHandle Socket, target string, targetHandle Socket) string {
	return fmt.Sprintf("xy-edge__%s%s-%s%s", source, sourceHandle, target, targetHandle)
}

// Validate ensures edge integrity. Missing handles default to the only
// compatible roles and a missing ID is derived from the endpoints.
func (e *Edge) Validate() error {
	if e.Source == "" {
		return ErrInvalidSource
	}
	if e.Target == "" {
		return ErrInvalidTarget
	}
	if e.Source == e.Target {
		return ErrSelfLoop
	}
	if e.SourceHandle == "" {
		e.SourceHandle = SocketSource
	}
	if e.TargetHandle == "" {
		e.TargetHandle = SocketTarget
	}
	if e.SourceHandle != SocketSource || e.TargetHandle != SocketTarget {
		return ErrIncompatibleSockets
	}
	if e.ID == "" {
		e.ID = EdgeID(e.Source, e.SourceHandle, e.Target, e.TargetHandle)
	}
	return nil
}

// Endpoints returns the endpoints of e. Empty handles are reported as the
// default roles.
func (e *Edge) Endpoints() Endpoints {
	ep := Endpoints{
		Source:       e.Source,
		SourceHandle: e.SourceHandle,
		Target:       e.Target,
		TargetHandle: e.TargetHandle,
	}
	if ep.SourceHandle == "" {
		ep.SourceHandle = SocketSource
	}
	if ep.TargetHandle == "" {
		ep.TargetHandle = SocketTarget
	}
	return ep
}

// Touches reports whether nodeID is either endpoint of e.
func (e *Edge) Touches(nodeID string) bool {
	return e.Source == nodeID || e.Target == nodeID
}
