package validation

import (
	"errors"
	"fmt"

	"github.com/flowgraph/flowbuilder/internal/core/gate"
	coregraph "github.com/flowgraph/flowbuilder/internal/core/graph"
	"github.com/flowgraph/flowbuilder/internal/core/nodekind"
)

// ErrSocketLimitExceeded reports a socket with more edges than its gate admits.
var ErrSocketLimitExceeded = errors.New("socket connection limit exceeded")

// GraphValidationOptions controls optional validation checks.
type GraphValidationOptions struct {
	// CheckCycles enables detection of directed cycles.
	CheckCycles bool
	// Kinds, when set, requires every node kind to be registered and every
	// socket to respect its kind's connection limit.
	Kinds *nodekind.Registry
}

// ValidateStructure performs structural validation on a flow. It is intended
// for flows loaded from outside the editor, where the controller's guards
// (AddNode/Connect) may have been bypassed. Edge IDs must be unique; a
// missing ID is derived from the endpoints and suffixed when already taken.
func ValidateStructure(f *coregraph.Flow, opts ...GraphValidationOptions) error {
	if f == nil {
		return fmt.Errorf("flow is nil")
	}

	var cfg GraphValidationOptions
	if len(opts) > 0 {
		cfg = opts[0]
	}

	seenNodes := make(map[string]struct{}, len(f.Nodes))
	for _, n := range f.Nodes {
		if n == nil {
			return fmt.Errorf("nil node encountered")
		}
		if err := n.Validate(); err != nil {
			return fmt.Errorf("node %q: %w", n.ID, err)
		}
		if _, dup := seenNodes[n.ID]; dup {
			return fmt.Errorf("node %q: %w", n.ID, coregraph.ErrDuplicateNode)
		}
		seenNodes[n.ID] = struct{}{}
		if cfg.Kinds != nil {
			if _, ok := cfg.Kinds.Lookup(n.Type); !ok {
				return fmt.Errorf("node %q: %s: %w", n.ID, n.Type, nodekind.ErrUnknownKind)
			}
		}
	}

	seenIDs := make(map[string]struct{}, len(f.Edges))
	seenEndpoints := make(map[coregraph.Endpoints]struct{}, len(f.Edges))
	for _, e := range f.Edges {
		if e == nil {
			return fmt.Errorf("nil edge encountered")
		}
		derived := e.ID == ""
		if err := e.Validate(); err != nil {
			return fmt.Errorf("edge %q: %w", e.ID, err)
		}
		if derived {
			base := e.ID
			for n := 1; ; n++ {
				if _, taken := seenIDs[e.ID]; !taken {
					break
				}
				e.ID = fmt.Sprintf("%s~%d", base, n)
			}
		}
		if _, ok := seenNodes[e.Source]; !ok {
			return fmt.Errorf("edge %q: %w", e.ID, coregraph.ErrSourceNodeNotFound)
		}
		if _, ok := seenNodes[e.Target]; !ok {
			return fmt.Errorf("edge %q: %w", e.ID, coregraph.ErrTargetNodeNotFound)
		}
		if _, dup := seenIDs[e.ID]; dup {
			return fmt.Errorf("edge %q: %w", e.ID, coregraph.ErrDuplicateEdgeID)
		}
		seenIDs[e.ID] = struct{}{}
		if _, dup := seenEndpoints[e.Endpoints()]; dup {
			return fmt.Errorf("edge %q: %w", e.ID, coregraph.ErrDuplicateEdge)
		}
		seenEndpoints[e.Endpoints()] = struct{}{}
	}

	if cfg.Kinds != nil {
		if err := checkSocketLimits(f, cfg.Kinds); err != nil {
			return err
		}
	}

	if cfg.CheckCycles && hasCycle(f) {
		return ErrCyclicFlow
	}
	return nil
}

// ErrCyclicFlow reports a directed cycle.
var ErrCyclicFlow = errors.New("cyclic dependency detected")

func checkSocketLimits(f *coregraph.Flow, kinds *nodekind.Registry) error {
	for _, n := range f.Nodes {
		def, _ := kinds.Lookup(n.Type)
		for _, socket := range []coregraph.Socket{coregraph.SocketSource, coregraph.SocketTarget} {
			g, _ := def.Sockets.For(socket)
			count := f.SocketConnections(n.ID, socket)
			// Every attached edge must have been admissible when it was added.
			if count > 0 && !gate.Allow(count-1, g.Limit) {
				return fmt.Errorf("node %q %s socket has %d edges: %w", n.ID, socket, count, ErrSocketLimitExceeded)
			}
		}
	}
	return nil
}

// hasCycle detects any cycle in a directed graph using DFS with coloring.
func hasCycle(f *coregraph.Flow) bool {
	const (
		white = 0 // unvisited
		gray  = 1 // visiting
		black = 2 // visited
	)
	color := make(map[string]int, len(f.Nodes))
	adj := make(map[string][]string, len(f.Nodes))
	for _, e := range f.Edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
	}
	var dfs func(string) bool
	dfs = func(u string) bool {
		color[u] = gray
		for _, v := range adj[u] {
			if color[v] == gray {
				return true // back-edge
			}
			if color[v] == white && dfs(v) {
				return true
			}
		}
		color[u] = black
		return false
	}
	for _, n := range f.Nodes {
		if color[n.ID] == white && dfs(n.ID) {
			return true
		}
	}
	return false
}
