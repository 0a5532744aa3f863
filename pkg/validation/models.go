// Package validation provides model definitions with validation tags
package validation

import (
	coregraph "github.com/flowgraph/flowbuilder/internal/core/graph"
)

// PositionModel is a canvas coordinate.
type PositionModel struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// NodeModel represents a node of a flow document with validation
// PRINCIPLES:
// - Single Responsibility: Node document shape only
// - Validation: Comprehensive validation tags
type NodeModel struct {
	ID       string        `json:"id" validate:"required,node_id" yaml:"id"`
	Type     string        `json:"type" validate:"required,node_kind" yaml:"type"`
	Position PositionModel `json:"position" yaml:"position"`
	Data     struct {
		Message string `json:"message" yaml:"message"`
	} `json:"data" yaml:"data"`
}

// EdgeModel represents an edge of a flow document with validation
type EdgeModel struct {
	ID           string `json:"id,omitempty" validate:"omitempty,max=256" yaml:"id,omitempty"`
	Source       string `json:"source" validate:"required,node_id" yaml:"source"`
	SourceHandle string `json:"sourceHandle,omitempty" validate:"omitempty,socket" yaml:"sourceHandle,omitempty"`
	Target       string `json:"target" validate:"required,node_id" yaml:"target"`
	TargetHandle string `json:"targetHandle,omitempty" validate:"omitempty,socket" yaml:"targetHandle,omitempty"`
}

// FlowModel is a complete flow document as produced by a flow export.
type FlowModel struct {
	Nodes []NodeModel `json:"nodes" validate:"dive" yaml:"nodes"`
	Edges []EdgeModel `json:"edges" validate:"dive" yaml:"edges"`
}

// Validate implements custom validation for FlowModel
func (fm *FlowModel) Validate() error {
	var errs ValidationErrors

	// Validate node ID uniqueness
	nodeIDs := make(map[string]bool, len(fm.Nodes))
	for _, node := range fm.Nodes {
		if nodeIDs[node.ID] {
			errs = append(errs, ValidationError{
				Field:   "nodes",
				Value:   node.ID,
				Message: "duplicate node ID",
			})
		}
		nodeIDs[node.ID] = true
	}

	// Validate edge references and ID uniqueness
	edgeIDs := make(map[string]bool, len(fm.Edges))
	for _, edge := range fm.Edges {
		if edge.ID != "" {
			if edgeIDs[edge.ID] {
				errs = append(errs, ValidationError{
					Field:   "edges.id",
					Value:   edge.ID,
					Message: "duplicate edge ID",
				})
			}
			edgeIDs[edge.ID] = true
		}
		if !nodeIDs[edge.Source] {
			errs = append(errs, ValidationError{
				Field:   "edges.source",
				Value:   edge.Source,
				Message: "references unknown node",
			})
		}
		if !nodeIDs[edge.Target] {
			errs = append(errs, ValidationError{
				Field:   "edges.target",
				Value:   edge.Target,
				Message: "references unknown node",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToFlow converts the document into the core flow entity.
func (fm *FlowModel) ToFlow() *coregraph.Flow {
	f := &coregraph.Flow{
		Nodes: make([]*coregraph.Node, 0, len(fm.Nodes)),
		Edges: make([]*coregraph.Edge, 0, len(fm.Edges)),
	}
	for _, n := range fm.Nodes {
		f.Nodes = append(f.Nodes, &coregraph.Node{
			ID:       n.ID,
			Type:     coregraph.NodeKind(n.Type),
			Position: coregraph.Position{X: n.Position.X, Y: n.Position.Y},
			Data:     coregraph.NodeData{Message: n.Data.Message},
		})
	}
	for _, e := range fm.Edges {
		f.Edges = append(f.Edges, &coregraph.Edge{
			ID:           e.ID,
			Source:       e.Source,
			SourceHandle: coregraph.Socket(e.SourceHandle),
			Target:       e.Target,
			TargetHandle: coregraph.Socket(e.TargetHandle),
		})
	}
	return f
}
