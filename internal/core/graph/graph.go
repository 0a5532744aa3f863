// Package graph provides the core flow domain entities
// following Clean Architecture principles with zero external dependencies.
package graph

// Flow is the ordered node and edge lists of one editor canvas. Order only
// matters for rendering; no rule depends on it.
// PRINCIPLES:
// - KISS: Two slices, no index structures to keep in sync
// - SRP: Only responsible for graph structure, not editing policy
type Flow struct {
	Nodes []*Node `json:"nodes" msgpack:"nodes" yaml:"nodes"`
	Edges []*Edge `json:"edges" msgpack:"edges" yaml:"edges"`
}

// Node looks up a node by ID.
func (f *Flow) Node(id string) (*Node, bool) {
	for _, n := range f.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// Edge looks up an edge by ID.
func (f *Flow) Edge(id string) (*Edge, bool) {
	for _, e := range f.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// EdgeBetween looks up the edge joining ep.
func (f *Flow) EdgeBetween(ep Endpoints) (*Edge, bool) {
	for _, e := range f.Edges {
		if e.Endpoints() == ep {
			return e, true
		}
	}
	return nil, false
}

// AddNode appends a node to the flow
// PRINCIPLES:
// - KISS: Direct and simple implementation
// - SRP: Only adds node, doesn't validate graph
func (f *Flow) AddNode(node *Node) error {
	if node == nil {
		return ErrNilNode
	}
	if err := node.Validate(); err != nil {
		return err
	}
	// Prevent duplicate node IDs
	if _, exists := f.Node(node.ID); exists {
		return ErrDuplicateNode
	}
	f.Nodes = append(f.Nodes, node)
	return nil
}

// AddEdge appends an edge to the flow
func (f *Flow) AddEdge(edge *Edge) error {
	if edge == nil {
		return ErrNilEdge
	}
	if err := edge.Validate(); err != nil {
		return err
	}
	// Verify source and target nodes exist
	if _, exists := f.Node(edge.Source); !exists {
		return ErrSourceNodeNotFound
	}
	if _, exists := f.Node(edge.Target); !exists {
		return ErrTargetNodeNotFound
	}
	if _, exists := f.EdgeBetween(edge.Endpoints()); exists {
		return ErrDuplicateEdge
	}
	if _, exists := f.Edge(edge.ID); exists {
		return ErrDuplicateEdgeID
	}
	f.Edges = append(f.Edges, edge)
	return nil
}

// RemoveNode deletes a node together with every edge that references it and
// returns the edges that were dropped.
func (f *Flow) RemoveNode(id string) ([]*Edge, error) {
	idx := -1
	for i, n := range f.Nodes {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNodeNotFound
	}
	f.Nodes = append(f.Nodes[:idx:idx], f.Nodes[idx+1:]...)

	var removed []*Edge
	kept := make([]*Edge, 0, len(f.Edges))
	for _, e := range f.Edges {
		if e.Touches(id) {
			removed = append(removed, e)
			continue
		}
		kept = append(kept, e)
	}
	f.Edges = kept
	return removed, nil
}

// RemoveEdge deletes a single edge.
func (f *Flow) RemoveEdge(id string) error {
	for i, e := range f.Edges {
		if e.ID == id {
			f.Edges = append(f.Edges[:i:i], f.Edges[i+1:]...)
			return nil
		}
	}
	return ErrEdgeNotFound
}

// SocketConnections counts the edges currently attached to the given socket
// of a node.
func (f *Flow) SocketConnections(nodeID string, socket Socket) int {
	count := 0
	for _, e := range f.Edges {
		switch socket {
		case SocketSource:
			if e.Source == nodeID {
				count++
			}
		case SocketTarget:
			if e.Target == nodeID {
				count++
			}
		}
	}
	return count
}

// Roots returns the nodes that are not the target of any edge, in node order.
func (f *Flow) Roots() []*Node {
	hasIncoming := make(map[string]struct{}, len(f.Edges))
	for _, e := range f.Edges {
		hasIncoming[e.Target] = struct{}{}
	}
	var roots []*Node
	for _, n := range f.Nodes {
		if _, ok := hasIncoming[n.ID]; !ok {
			roots = append(roots, n)
		}
	}
	return roots
}

// Clone returns a deep copy of the flow.
func (f *Flow) Clone() *Flow {
	out := &Flow{
		Nodes: make([]*Node, 0, len(f.Nodes)),
		Edges: make([]*Edge, 0, len(f.Edges)),
	}
	for _, n := range f.Nodes {
		out.Nodes = append(out.Nodes, n.Clone())
	}
	for _, e := range f.Edges {
		c := *e
		out.Edges = append(out.Edges, &c)
	}
	return out
}
