// Package nodekind holds the catalog of node kinds the editor knows about.
// Each kind registers its palette entry, its socket limits, a renderer for the
// canvas card and the inspector editor used to change it. Adding a kind is a
// call to Register; nothing else in the editor branches on the kind.
package nodekind

import (
	"errors"
	"fmt"
	"sync"

	"github.com/flowgraph/flowbuilder/internal/core/gate"
	"github.com/flowgraph/flowbuilder/internal/core/graph"
)

// Registry errors
var (
	ErrInvalidKind     = errors.New("invalid node kind")
	ErrUnknownKind     = errors.New("unknown node kind")
	ErrDuplicateKind   = errors.New("node kind already registered")
	ErrMissingRenderer = errors.New("node kind has no renderer")
	ErrEmptyPayload    = errors.New("empty drag payload")
)

// Descriptor is the read-only palette entry of a node kind.
type Descriptor struct {
	Kind        graph.NodeKind `json:"type" yaml:"type"`
	Label       string         `json:"label" yaml:"label"`
	Icon        string         `json:"icon" yaml:"icon"`
	Color       string         `json:"color" yaml:"color"`
	Description string         `json:"description" yaml:"description"`
}

// Sockets holds the connection gates of a kind's two sockets.
type Sockets struct {
	Source gate.Gate `json:"source" yaml:"source"`
	Target gate.Gate `json:"target" yaml:"target"`
}

// For returns the gate of the given socket role.
func (s Sockets) For(socket graph.Socket) (gate.Gate, bool) {
	switch socket {
	case graph.SocketSource:
		return s.Source, true
	case graph.SocketTarget:
		return s.Target, true
	default:
		return gate.Gate{}, false
	}
}

// Definition is everything registered for one node kind.
type Definition struct {
	Descriptor
	Sockets  Sockets
	Renderer Renderer
	Editor   Editor
}

// Registry maps node kinds to their definitions, preserving registration
// order for the palette.
type Registry struct {
	mu    sync.RWMutex
	defs  map[graph.NodeKind]Definition
	order []graph.NodeKind
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[graph.NodeKind]Definition)}
}

// Register adds a node kind.
func (r *Registry) Register(def Definition) error {
	if def.Kind == "" {
		return ErrInvalidKind
	}
	if def.Renderer == nil {
		return fmt.Errorf("%s: %w", def.Kind, ErrMissingRenderer)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Kind]; exists {
		return fmt.Errorf("%s: %w", def.Kind, ErrDuplicateKind)
	}
	r.defs[def.Kind] = def
	r.order = append(r.order, def.Kind)
	return nil
}

// MustRegister is Register that panics on error. Intended for static setup.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Lookup returns the definition of kind.
func (r *Registry) Lookup(kind graph.NodeKind) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[kind]
	return def, ok
}

// Palette returns the descriptors of all kinds in registration order.
func (r *Registry) Palette() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.defs[k].Descriptor)
	}
	return out
}

// DragPayload returns the token a palette entry carries when a drag starts.
func (r *Registry) DragPayload(kind graph.NodeKind) (string, error) {
	if _, ok := r.Lookup(kind); !ok {
		return "", fmt.Errorf("%s: %w", kind, ErrUnknownKind)
	}
	return string(kind), nil
}

// ParsePayload resolves a dropped token back into a registered kind.
func (r *Registry) ParsePayload(token string) (graph.NodeKind, error) {
	if token == "" {
		return "", ErrEmptyPayload
	}
	kind := graph.NodeKind(token)
	if _, ok := r.Lookup(kind); !ok {
		return "", fmt.Errorf("%s: %w", token, ErrUnknownKind)
	}
	return kind, nil
}
