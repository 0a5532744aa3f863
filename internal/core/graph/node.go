// Package graph provides node definitions
package graph

// NodeKind represents the type of node
type NodeKind string

const (
	// NodeKindMessage represents a "send message" step
	NodeKindMessage NodeKind = "message"
)

// Position is a point in canvas space.
type Position struct {
	X float64 `json:"x" msgpack:"x" yaml:"x"`
	Y float64 `json:"y" msgpack:"y" yaml:"y"`
}

// Sub returns p translated by -o.
func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y}
}

// NodeData holds the editable payload of a node.
type NodeData struct {
	Message string `json:"message" msgpack:"message" yaml:"message"`
}

// Node represents one step of a flow on the canvas
// PRINCIPLES:
// - KISS: Simple node representation
// - SRP: Only responsible for node data
type Node struct {
	ID       string   `json:"id" msgpack:"id" yaml:"id"`
	Type     NodeKind `json:"type" msgpack:"type" yaml:"type"`
	Position Position `json:"position" msgpack:"position" yaml:"position"`
	Data     NodeData `json:"data" msgpack:"data" yaml:"data"`
}

// Validate ensures node integrity
func (n *Node) Validate() error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if n.Type == "" {
		return ErrInvalidNodeType
	}
	return nil
}

// Clone returns a copy of the node that shares no state with n.
func (n *Node) Clone() *Node {
	c := *n
	return &c
}
