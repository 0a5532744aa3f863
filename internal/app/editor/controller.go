// Package editor implements the flow canvas controller: the single owner of a
// flow's nodes and edges, the current selection and the save notification.
//
// Every operation runs to completion under one mutex, so gestures delivered
// concurrently by a host are applied one at a time.
package editor

import (
	"fmt"
	"sync"
	"time"

	"github.com/flowgraph/flowbuilder/internal/core/graph"
	"github.com/flowgraph/flowbuilder/internal/core/nodekind"
	"github.com/flowgraph/flowbuilder/internal/core/notify"
	"github.com/flowgraph/flowbuilder/pkg/validation"
	"go.uber.org/zap"
)

// Controller owns the editor state of one canvas.
type Controller struct {
	mu sync.Mutex

	flow     *graph.Flow
	selected string
	viewport graph.Position

	kinds     *nodekind.Registry
	surface   *notify.Surface
	colorMode ColorMode
	logger    *zap.Logger
	recorder  Recorder
	now       func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithRegistry sets the node kinds available on the canvas.
func WithRegistry(r *nodekind.Registry) Option {
	return func(c *Controller) { c.kinds = r }
}

// WithSurface sets the notification surface save results are shown on.
func WithSurface(s *notify.Surface) Option {
	return func(c *Controller) { c.surface = s }
}

// WithColorMode sets the color mode reported to the renderer.
func WithColorMode(m ColorMode) Option {
	return func(c *Controller) { c.colorMode = m }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithClock replaces time.Now for node ID generation.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New creates a controller with an empty canvas.
func New(opts ...Option) *Controller {
	c := &Controller{
		flow:      &graph.Flow{},
		colorMode: ColorModeLight,
		logger:    zap.NewNop(),
		recorder:  nopRecorder{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.kinds == nil {
		c.kinds = nodekind.Default()
	}
	if c.surface == nil {
		c.surface = notify.NewSurface()
	}
	return c
}

// SetViewportOrigin records the screen-space origin of the canvas.
func (c *Controller) SetViewportOrigin(origin graph.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport = origin
}

// AddNode creates a node of kind at a screen-space drop point. The node is
// placed in canvas space by subtracting the viewport origin and starts with
// an empty message.
func (c *Controller) AddNode(kind graph.NodeKind, screen graph.Position) (*graph.Node, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.kinds.Lookup(kind); !ok {
		return nil, fmt.Errorf("%s: %w", kind, nodekind.ErrUnknownKind)
	}

	node := &graph.Node{
		ID:       c.nextNodeIDLocked(kind),
		Type:     kind,
		Position: screen.Sub(c.viewport),
	}
	if err := c.flow.AddNode(node); err != nil {
		return nil, err
	}

	c.recorder.NodeAdded(kind)
	c.logger.Debug("node added",
		zap.String("node_id", node.ID),
		zap.String("type", string(kind)),
		zap.Float64("x", node.Position.X),
		zap.Float64("y", node.Position.Y),
	)
	return node.Clone(), nil
}

// Drop handles a palette item released on the canvas. An empty payload means
// the drag ended outside a valid drop target and leaves the state unchanged.
func (c *Controller) Drop(payload string, screen graph.Position) (*graph.Node, error) {
	if payload == "" {
		return nil, nil
	}
	kind, err := c.kinds.ParsePayload(payload)
	if err != nil {
		return nil, err
	}
	return c.AddNode(kind, screen)
}

// nextNodeIDLocked derives "<kind>-<unix nanos>", stepping forward until the
// ID is unused.
func (c *Controller) nextNodeIDLocked(kind graph.NodeKind) string {
	stamp := c.now().UnixNano()
	for {
		id := fmt.Sprintf("%s-%d", kind, stamp)
		if _, taken := c.flow.Node(id); !taken {
			return id
		}
		stamp++
	}
}

// nextEdgeIDLocked derives the edge ID from its endpoints, appending a
// counter when another edge already holds that ID.
func (c *Controller) nextEdgeIDLocked(ep graph.Endpoints) string {
	base := graph.EdgeID(ep.Source, ep.SourceHandle, ep.Target, ep.TargetHandle)
	id := base
	for n := 1; ; n++ {
		if _, taken := c.flow.Edge(id); !taken {
			return id
		}
		id = fmt.Sprintf("%s~%d", base, n)
	}
}

// MoveNode sets a node's canvas position.
func (c *Controller) MoveNode(id string, position graph.Position) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.flow.Node(id)
	if !ok {
		return fmt.Errorf("%s: %w", id, graph.ErrNodeNotFound)
	}
	node.Position = position
	return nil
}

// Connect adds an edge from the source socket of one node to the target
// socket of another. Empty socket names default to the only compatible role.
// The edge is rejected when either socket's gate admits no more connections,
// when it would join a node to itself, or when the same edge already exists.
func (c *Controller) Connect(sourceID string, sourceSocket graph.Socket, targetID string, targetSocket graph.Socket) (*graph.Edge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	edge, err := c.connectLocked(sourceID, sourceSocket, targetID, targetSocket)
	if err != nil {
		c.recorder.EdgeRejected(rejectReason(err))
		c.logger.Debug("connection rejected",
			zap.String("source", sourceID),
			zap.String("target", targetID),
			zap.Error(err),
		)
		return nil, err
	}

	c.recorder.EdgeConnected()
	c.logger.Debug("edge added", zap.String("edge_id", edge.ID))
	out := *edge
	return &out, nil
}

func (c *Controller) connectLocked(sourceID string, sourceSocket graph.Socket, targetID string, targetSocket graph.Socket) (*graph.Edge, error) {
	if sourceSocket == "" {
		sourceSocket = graph.SocketSource
	}
	if targetSocket == "" {
		targetSocket = graph.SocketTarget
	}
	if sourceSocket != graph.SocketSource || targetSocket != graph.SocketTarget {
		return nil, graph.ErrIncompatibleSockets
	}

	source, ok := c.flow.Node(sourceID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", sourceID, graph.ErrSourceNodeNotFound)
	}
	target, ok := c.flow.Node(targetID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", targetID, graph.ErrTargetNodeNotFound)
	}
	if sourceID == targetID {
		return nil, graph.ErrSelfLoop
	}

	ep := graph.Endpoints{
		Source:       sourceID,
		SourceHandle: sourceSocket,
		Target:       targetID,
		TargetHandle: targetSocket,
	}
	if existing, exists := c.flow.EdgeBetween(ep); exists {
		return nil, fmt.Errorf("%s: %w", existing.ID, graph.ErrDuplicateEdge)
	}

	if err := c.admitLocked(source, sourceSocket); err != nil {
		return nil, err
	}
	if err := c.admitLocked(target, targetSocket); err != nil {
		return nil, err
	}

	edge := &graph.Edge{
		ID:           c.nextEdgeIDLocked(ep),
		Source:       sourceID,
		SourceHandle: sourceSocket,
		Target:       targetID,
		TargetHandle: targetSocket,
	}
	if err := c.flow.AddEdge(edge); err != nil {
		return nil, err
	}
	return edge, nil
}

// admitLocked asks the gate of node's socket for one more connection.
func (c *Controller) admitLocked(node *graph.Node, socket graph.Socket) error {
	def, ok := c.kinds.Lookup(node.Type)
	if !ok {
		return fmt.Errorf("%s: %w", node.Type, nodekind.ErrUnknownKind)
	}
	g, _ := def.Sockets.For(socket)
	if !g.Allow(c.flow.SocketConnections(node.ID, socket)) {
		return limitError(node.ID, socket, g.Limit)
	}
	return nil
}

// DeleteEdge removes one edge.
func (c *Controller) DeleteEdge(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.flow.RemoveEdge(id); err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	c.recorder.EdgeDeleted()
	return nil
}

// SelectNode makes id the selected node.
func (c *Controller) SelectNode(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.flow.Node(id); !ok {
		return fmt.Errorf("%s: %w", id, graph.ErrNodeNotFound)
	}
	c.selected = id
	return nil
}

// ClearSelection deselects; used for clicks on the empty canvas and for
// closing the inspector.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = ""
}

// SelectedNode returns a copy of the selected node. A selection whose node no
// longer exists reads as no selection.
func (c *Controller) SelectedNode() (*graph.Node, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.selectedLocked()
	if !ok {
		return nil, false
	}
	return node.Clone(), true
}

func (c *Controller) selectedLocked() (*graph.Node, bool) {
	if c.selected == "" {
		return nil, false
	}
	node, ok := c.flow.Node(c.selected)
	if !ok {
		c.selected = ""
		return nil, false
	}
	return node, true
}

// UpdateSelectedNodeMessage replaces the message of the selected node.
func (c *Controller) UpdateSelectedNodeMessage(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.selectedLocked()
	if !ok {
		return ErrNoSelection
	}
	node.Data.Message = text
	return nil
}

// DeleteSelectedNode removes the selected node and every edge touching it,
// then clears the selection. It reports whether a node was removed.
func (c *Controller) DeleteSelectedNode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.selectedLocked()
	if !ok {
		return false
	}
	removed, err := c.flow.RemoveNode(node.ID)
	c.selected = ""
	if err != nil {
		return false
	}

	c.recorder.NodeDeleted(len(removed))
	c.logger.Debug("node deleted",
		zap.String("node_id", node.ID),
		zap.Int("edges_removed", len(removed)),
	)
	return true
}

// Load replaces the canvas with f after checking its structure against the
// registered kinds. Missing edge handles and IDs are filled in on f. The
// selection is cleared.
func (c *Controller) Load(f *graph.Flow) error {
	if err := validation.ValidateStructure(f, validation.GraphValidationOptions{Kinds: c.kinds}); err != nil {
		return err
	}
	loaded := f.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.flow = loaded
	c.selected = ""
	c.logger.Debug("flow loaded",
		zap.Int("nodes", len(loaded.Nodes)),
		zap.Int("edges", len(loaded.Edges)),
	)
	return nil
}

// Snapshot returns a deep copy of the flow.
func (c *Controller) Snapshot() *graph.Flow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flow.Clone()
}

// Notification returns the live notification, if any.
func (c *Controller) Notification() (notify.Notification, bool) {
	return c.surface.Current()
}

// ColorMode returns the color mode the canvas renders in.
func (c *Controller) ColorMode() ColorMode {
	return c.colorMode
}

// Kinds returns the node kind registry of the canvas.
func (c *Controller) Kinds() *nodekind.Registry {
	return c.kinds
}
