package dto

import (
	"time"

	"github.com/flowgraph/flowbuilder/internal/app/editor"
	"github.com/flowgraph/flowbuilder/internal/core/graph"
	"github.com/flowgraph/flowbuilder/internal/core/nodekind"
	"github.com/flowgraph/flowbuilder/pkg/validation"
)

// CreateFlowRequest opens a new editor session, optionally seeded with an
// exported flow document.
type CreateFlowRequest struct {
	Flow *validation.FlowModel `json:"flow,omitempty" validate:"omitempty"`
}

// Validate checks the seeded flow document, if any.
func (r *CreateFlowRequest) Validate() error {
	if r.Flow == nil {
		return nil
	}
	return r.Flow.Validate()
}

// PositionRequest carries a point in screen or canvas space.
type PositionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point converts the request into a graph position.
func (p PositionRequest) Point() graph.Position {
	return graph.Position{X: p.X, Y: p.Y}
}

// DropRequest is a palette item released on the canvas. Payload is the drag
// token; Screen is the pointer position in screen space.
type DropRequest struct {
	Payload string          `json:"payload" validate:"omitempty,max=64"`
	Screen  PositionRequest `json:"screen"`
}

// MoveNodeRequest sets a node's canvas position.
type MoveNodeRequest struct {
	Position PositionRequest `json:"position"`
}

// ConnectRequest links two nodes.
type ConnectRequest struct {
	Source       string `json:"source" validate:"required,node_id"`
	SourceHandle string `json:"sourceHandle,omitempty" validate:"omitempty,socket"`
	Target       string `json:"target" validate:"required,node_id"`
	TargetHandle string `json:"targetHandle,omitempty" validate:"omitempty,socket"`
}

// SelectRequest selects a node.
type SelectRequest struct {
	NodeID string `json:"nodeId" validate:"required,node_id"`
}

// MessageRequest carries the full text of the inspector field.
type MessageRequest struct {
	Message string `json:"message" validate:"max=4096"`
}

// FlowResponse describes one editor session.
type FlowResponse struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"createdAt"`
	Canvas    editor.CanvasView `json:"canvas"`
}

// FlowSummary is one entry of the session list.
type FlowSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
}

// ConfigResponse is the host configuration the renderer needs.
type ConfigResponse struct {
	ColorMode       editor.ColorMode `json:"colorMode"`
	NotificationTTL string           `json:"notificationTtl"`
}

// PaletteResponse lists the node kinds that can be dragged onto the canvas.
type PaletteResponse struct {
	Items []PaletteItem `json:"items"`
}

// PaletteItem is a palette descriptor plus its drag payload.
type PaletteItem struct {
	nodekind.Descriptor
	Payload string `json:"payload"`
}

// NotificationResponse reports the live notification, if any.
type NotificationResponse struct {
	Active bool   `json:"active"`
	Kind   string `json:"kind,omitempty"`
	Text   string `json:"text,omitempty"`
	// ExpiresAt is zero when the notification does not expire.
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}
