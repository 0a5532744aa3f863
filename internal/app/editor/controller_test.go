package editor

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/flowgraph/flowbuilder/internal/core/graph"
	"github.com/flowgraph/flowbuilder/internal/core/nodekind"
	"github.com/flowgraph/flowbuilder/internal/core/notify"
	"github.com/flowgraph/flowbuilder/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecorder struct {
	mu        sync.Mutex
	added     int
	deleted   int
	cascaded  int
	connected int
	rejected  map[string]int
	edgesDel  int
	saves     map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{rejected: map[string]int{}, saves: map[string]int{}}
}

func (r *countingRecorder) NodeAdded(graph.NodeKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.added++
}

func (r *countingRecorder) NodeDeleted(edges int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted++
	r.cascaded += edges
}

func (r *countingRecorder) EdgeConnected() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connected++
}

func (r *countingRecorder) EdgeRejected(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected[reason]++
}

func (r *countingRecorder) EdgeDeleted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edgesDel++
}

func (r *countingRecorder) SaveAttempted(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves[outcome]++
}

// stepClock returns a fixed instant so generated IDs collide and must be
// bumped.
func stepClock() func() time.Time {
	at := time.Unix(1700000000, 0)
	return func() time.Time { return at }
}

func newController(t *testing.T, opts ...Option) *Controller {
	t.Helper()
	base := []Option{
		WithSurface(notify.NewSurface(notify.WithTTL(0))),
		WithClock(stepClock()),
	}
	return New(append(base, opts...)...)
}

func addNodes(t *testing.T, c *Controller, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		node, err := c.AddNode(graph.NodeKindMessage, graph.Position{X: float64(i * 100)})
		require.NoError(t, err)
		ids = append(ids, node.ID)
	}
	return ids
}

func TestController_AddNode(t *testing.T) {
	c := newController(t)

	node, err := c.AddNode(graph.NodeKindMessage, graph.Position{X: 10, Y: 20})
	require.NoError(t, err)
	assert.Equal(t, "message-1700000000000000000", node.ID)
	assert.Equal(t, graph.NodeKindMessage, node.Type)
	assert.Equal(t, graph.Position{X: 10, Y: 20}, node.Position)
	assert.Empty(t, node.Data.Message)

	second, err := c.AddNode(graph.NodeKindMessage, graph.Position{})
	require.NoError(t, err)
	assert.Equal(t, "message-1700000000000000001", second.ID)

	snap := c.Snapshot()
	require.Len(t, snap.Nodes, 2)
	assert.Equal(t, node.ID, snap.Nodes[0].ID)
	assert.Equal(t, second.ID, snap.Nodes[1].ID)
}

func TestController_AddNode_UnknownKind(t *testing.T) {
	c := newController(t)

	_, err := c.AddNode("textUpdater", graph.Position{})
	assert.ErrorIs(t, err, nodekind.ErrUnknownKind)
	assert.Empty(t, c.Snapshot().Nodes)
}

func TestController_DropAppliesViewportOrigin(t *testing.T) {
	c := newController(t)
	c.SetViewportOrigin(graph.Position{X: 50, Y: 30})

	payload, err := c.Kinds().DragPayload(graph.NodeKindMessage)
	require.NoError(t, err)

	node, err := c.Drop(payload, graph.Position{X: 150, Y: 80})
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, graph.Position{X: 100, Y: 50}, node.Position)
}

func TestController_DropEmptyPayload(t *testing.T) {
	c := newController(t)

	node, err := c.Drop("", graph.Position{X: 1, Y: 1})
	assert.NoError(t, err)
	assert.Nil(t, node)
	assert.Empty(t, c.Snapshot().Nodes)

	_, err = c.Drop("unknown", graph.Position{})
	assert.ErrorIs(t, err, nodekind.ErrUnknownKind)
}

func TestController_Connect(t *testing.T) {
	rec := newCountingRecorder()
	c := newController(t, WithRecorder(rec))
	ids := addNodes(t, c, 3)
	a, b, d := ids[0], ids[1], ids[2]

	edge, err := c.Connect(a, "", b, "")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("xy-edge__%ssource-%starget", a, b), edge.ID)
	assert.Equal(t, graph.SocketSource, edge.SourceHandle)
	assert.Equal(t, graph.SocketTarget, edge.TargetHandle)

	tests := []struct {
		name   string
		source string
		sSock  graph.Socket
		target string
		tSock  graph.Socket
		want   error
		reason string
	}{
		{name: "source socket full", source: a, target: d, want: ErrConnectionLimit, reason: "limit"},
		{name: "duplicate edge", source: a, target: b, want: graph.ErrDuplicateEdge, reason: "duplicate"},
		{name: "self loop", source: b, target: b, want: graph.ErrSelfLoop, reason: "self_loop"},
		{name: "target to target", source: b, sSock: graph.SocketTarget, target: d, tSock: graph.SocketTarget, want: graph.ErrIncompatibleSockets, reason: "sockets"},
		{name: "missing source", source: "ghost", target: d, want: graph.ErrSourceNodeNotFound, reason: "not_found"},
		{name: "missing target", source: b, target: "ghost", want: graph.ErrTargetNodeNotFound, reason: "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Connect(tt.source, tt.sSock, tt.target, tt.tSock)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Len(t, c.Snapshot().Edges, 1)
	assert.Equal(t, 1, rec.connected)
	assert.Equal(t, 1, rec.rejected["limit"])
	assert.Equal(t, 2, rec.rejected["not_found"])
}

func TestController_Connect_TargetUnlimited(t *testing.T) {
	c := newController(t)
	ids := addNodes(t, c, 4)

	for _, src := range ids[1:] {
		_, err := c.Connect(src, graph.SocketSource, ids[0], graph.SocketTarget)
		require.NoError(t, err)
	}
	assert.Len(t, c.Snapshot().Edges, 3)
}

func TestController_Connect_CustomLimits(t *testing.T) {
	kinds := nodekind.NewRegistry()
	def := nodekind.MessageDefinition()
	def.Sockets.Source.Limit = 2
	def.Sockets.Target.Limit = 0
	kinds.MustRegister(def)

	c := newController(t, WithRegistry(kinds))
	ids := addNodes(t, c, 2)

	_, err := c.Connect(ids[0], "", ids[1], "")
	assert.ErrorIs(t, err, ErrConnectionLimit)
}

func TestController_MoveNode(t *testing.T) {
	c := newController(t)
	ids := addNodes(t, c, 1)

	require.NoError(t, c.MoveNode(ids[0], graph.Position{X: 7, Y: 9}))
	assert.Equal(t, graph.Position{X: 7, Y: 9}, c.Snapshot().Nodes[0].Position)
	assert.ErrorIs(t, c.MoveNode("ghost", graph.Position{}), graph.ErrNodeNotFound)
}

func TestController_DeleteEdge(t *testing.T) {
	rec := newCountingRecorder()
	c := newController(t, WithRecorder(rec))
	ids := addNodes(t, c, 2)
	edge, err := c.Connect(ids[0], "", ids[1], "")
	require.NoError(t, err)

	require.NoError(t, c.DeleteEdge(edge.ID))
	assert.Empty(t, c.Snapshot().Edges)
	assert.ErrorIs(t, c.DeleteEdge(edge.ID), graph.ErrEdgeNotFound)
	assert.Equal(t, 1, rec.edgesDel)

	// The source socket is free again.
	_, err = c.Connect(ids[0], "", ids[1], "")
	assert.NoError(t, err)
}

func TestController_SelectionUpdatesCanonicalNode(t *testing.T) {
	c := newController(t)
	ids := addNodes(t, c, 2)

	require.NoError(t, c.SelectNode(ids[0]))
	require.NoError(t, c.UpdateSelectedNodeMessage("hi"))

	snap := c.Snapshot()
	assert.Equal(t, "hi", snap.Nodes[0].Data.Message)
	assert.Empty(t, snap.Nodes[1].Data.Message)

	selected, ok := c.SelectedNode()
	require.True(t, ok)
	assert.Equal(t, "hi", selected.Data.Message)

	// Copies returned to callers do not alias canonical state.
	selected.Data.Message = "changed"
	again, _ := c.SelectedNode()
	assert.Equal(t, "hi", again.Data.Message)
}

func TestController_SelectionErrors(t *testing.T) {
	c := newController(t)

	assert.ErrorIs(t, c.SelectNode("ghost"), graph.ErrNodeNotFound)
	assert.ErrorIs(t, c.UpdateSelectedNodeMessage("x"), ErrNoSelection)

	ids := addNodes(t, c, 1)
	require.NoError(t, c.SelectNode(ids[0]))
	c.ClearSelection()
	_, ok := c.SelectedNode()
	assert.False(t, ok)
	assert.ErrorIs(t, c.UpdateSelectedNodeMessage("x"), ErrNoSelection)
}

func TestController_DeleteSelectedNode(t *testing.T) {
	rec := newCountingRecorder()
	c := newController(t, WithRecorder(rec))
	ids := addNodes(t, c, 4)
	a, b, x, d := ids[0], ids[1], ids[2], ids[3]

	_, err := c.Connect(a, "", x, "")
	require.NoError(t, err)
	_, err = c.Connect(x, "", b, "")
	require.NoError(t, err)
	keep, err := c.Connect(d, "", b, "")
	require.NoError(t, err)

	assert.False(t, c.DeleteSelectedNode(), "no selection is a no-op")

	require.NoError(t, c.SelectNode(x))
	assert.True(t, c.DeleteSelectedNode())

	snap := c.Snapshot()
	require.Len(t, snap.Edges, 1)
	assert.Equal(t, keep.ID, snap.Edges[0].ID)
	for _, e := range snap.Edges {
		assert.False(t, e.Touches(x))
	}
	_, found := snap.Node(x)
	assert.False(t, found)

	_, ok := c.SelectedNode()
	assert.False(t, ok)
	assert.Equal(t, 1, rec.deleted)
	assert.Equal(t, 2, rec.cascaded)
}

func TestController_DeletedNodeNeverCountsAsRoot(t *testing.T) {
	c := newController(t)
	ids := addNodes(t, c, 3)
	a, b, x := ids[0], ids[1], ids[2]

	// x is a second root until it is deleted.
	_, err := c.Connect(a, "", b, "")
	require.NoError(t, err)
	_, err = c.Connect(x, "", b, "")
	require.NoError(t, err)

	_, err = c.ValidateAndSave()
	require.ErrorIs(t, err, validation.ErrMultipleRoots)

	require.NoError(t, c.SelectNode(x))
	require.True(t, c.DeleteSelectedNode())

	result, err := c.ValidateAndSave()
	require.NoError(t, err)
	assert.True(t, result.Saved)
}

func TestController_ValidateAndSave(t *testing.T) {
	tests := []struct {
		name     string
		nodes    int
		edges    [][2]int
		wantErr  error
		wantText string
		outcome  string
	}{
		{name: "empty canvas", nodes: 0, wantErr: validation.ErrTooFewNodes, wantText: validation.MessageTooFewNodes, outcome: OutcomeTooFewNodes},
		{name: "single node", nodes: 1, wantErr: validation.ErrTooFewNodes, wantText: validation.MessageTooFewNodes, outcome: OutcomeTooFewNodes},
		{name: "three isolated nodes", nodes: 3, wantErr: validation.ErrMultipleRoots, wantText: validation.MessageMultipleRoots, outcome: OutcomeMultipleRoots},
		{name: "single chain", nodes: 2, edges: [][2]int{{0, 1}}, wantText: validation.MessageSaved, outcome: OutcomeSaved},
		{name: "fan in", nodes: 3, edges: [][2]int{{0, 1}, {2, 1}}, wantErr: validation.ErrMultipleRoots, wantText: validation.MessageMultipleRoots, outcome: OutcomeMultipleRoots},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newCountingRecorder()
			c := newController(t, WithRecorder(rec))
			ids := addNodes(t, c, tt.nodes)
			for _, e := range tt.edges {
				_, err := c.Connect(ids[e[0]], "", ids[e[1]], "")
				require.NoError(t, err)
			}
			before := c.Snapshot()

			result, err := c.ValidateAndSave()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.False(t, result.Saved)
				assert.Equal(t, notify.KindError, result.Notification.Kind)
			} else {
				require.NoError(t, err)
				assert.True(t, result.Saved)
				assert.Equal(t, notify.KindSuccess, result.Notification.Kind)
			}
			assert.Equal(t, tt.wantText, result.Notification.Text)
			assert.Equal(t, tt.outcome, result.Outcome)
			assert.Equal(t, 1, rec.saves[tt.outcome])

			current, ok := c.Notification()
			require.True(t, ok)
			assert.Equal(t, tt.wantText, current.Text)

			assert.Equal(t, before, c.Snapshot(), "save must not modify the flow")
		})
	}
}

func TestController_ValidateAndSave_ReportsRoots(t *testing.T) {
	c := newController(t)
	ids := addNodes(t, c, 3)

	result, err := c.ValidateAndSave()
	var saveErr *validation.SaveError
	require.ErrorAs(t, err, &saveErr)
	assert.Equal(t, ids, result.Roots)
	assert.Equal(t, ids, saveErr.Roots)
}

func TestController_ValidateAndSave_ReplacesNotification(t *testing.T) {
	var shown []notify.Notification
	surface := notify.NewSurface(
		notify.WithTTL(0),
		notify.WithSinks(notify.SinkFunc(func(n notify.Notification) { shown = append(shown, n) })),
	)
	c := newController(t, WithSurface(surface))
	ids := addNodes(t, c, 2)

	_, err := c.ValidateAndSave()
	require.Error(t, err)

	_, err = c.Connect(ids[0], "", ids[1], "")
	require.NoError(t, err)
	_, err = c.ValidateAndSave()
	require.NoError(t, err)

	require.Len(t, shown, 2)
	assert.Equal(t, notify.KindError, shown[0].Kind)
	assert.Equal(t, notify.KindSuccess, shown[1].Kind)

	current, ok := c.Notification()
	require.True(t, ok)
	assert.Equal(t, validation.MessageSaved, current.Text)
}

func TestController_ConcurrentGestures(t *testing.T) {
	c := newController(t, WithClock(time.Now))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.AddNode(graph.NodeKindMessage, graph.Position{X: float64(i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	snap := c.Snapshot()
	require.Len(t, snap.Nodes, 20)
	seen := make(map[string]bool)
	for _, n := range snap.Nodes {
		assert.False(t, seen[n.ID], "duplicate id %s", n.ID)
		seen[n.ID] = true
	}
}

func TestController_Load(t *testing.T) {
	c := newController(t)
	ids := addNodes(t, c, 1)
	require.NoError(t, c.SelectNode(ids[0]))

	f := &graph.Flow{
		Nodes: []*graph.Node{
			{ID: "message-1", Type: graph.NodeKindMessage, Data: graph.NodeData{Message: "hi"}},
			{ID: "message-2", Type: graph.NodeKindMessage},
		},
		Edges: []*graph.Edge{{Source: "message-1", Target: "message-2"}},
	}
	require.NoError(t, c.Load(f))

	snap := c.Snapshot()
	require.Len(t, snap.Nodes, 2)
	require.Len(t, snap.Edges, 1)
	assert.Equal(t, "xy-edge__message-1source-message-2target", snap.Edges[0].ID)
	_, ok := c.SelectedNode()
	assert.False(t, ok)

	// Loaded state is independent of the caller's flow.
	f.Nodes[0].Data.Message = "changed"
	assert.Equal(t, "hi", c.Snapshot().Nodes[0].Data.Message)

	_, err := c.ValidateAndSave()
	assert.NoError(t, err)
}

func TestController_Load_Rejected(t *testing.T) {
	c := newController(t)
	addNodes(t, c, 1)

	tests := []struct {
		name string
		flow *graph.Flow
		want error
	}{
		{
			name: "unknown kind",
			flow: &graph.Flow{Nodes: []*graph.Node{{ID: "a", Type: "textUpdater"}}},
			want: nodekind.ErrUnknownKind,
		},
		{
			name: "source socket over limit",
			flow: &graph.Flow{
				Nodes: []*graph.Node{
					{ID: "a", Type: graph.NodeKindMessage},
					{ID: "b", Type: graph.NodeKindMessage},
					{ID: "c", Type: graph.NodeKindMessage},
				},
				Edges: []*graph.Edge{{Source: "a", Target: "b"}, {Source: "a", Target: "c"}},
			},
			want: validation.ErrSocketLimitExceeded,
		},
		{
			name: "dangling edge",
			flow: &graph.Flow{
				Nodes: []*graph.Node{{ID: "a", Type: graph.NodeKindMessage}},
				Edges: []*graph.Edge{{Source: "a", Target: "ghost"}},
			},
			want: graph.ErrTargetNodeNotFound,
		},
		{
			name: "reused edge id",
			flow: &graph.Flow{
				Nodes: []*graph.Node{
					{ID: "a", Type: graph.NodeKindMessage},
					{ID: "b", Type: graph.NodeKindMessage},
					{ID: "c", Type: graph.NodeKindMessage},
				},
				Edges: []*graph.Edge{
					{ID: "e1", Source: "a", Target: "b"},
					{ID: "e1", Source: "c", Target: "b"},
				},
			},
			want: graph.ErrDuplicateEdgeID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, c.Load(tt.flow), tt.want)
			assert.Len(t, c.Snapshot().Nodes, 1, "failed load keeps the canvas")
		})
	}
}

func TestController_Connect_AmbiguousEdgeIDs(t *testing.T) {
	c := newController(t)
	require.NoError(t, c.Load(&graph.Flow{
		Nodes: []*graph.Node{
			{ID: "x", Type: graph.NodeKindMessage},
			{ID: "ysource-z", Type: graph.NodeKindMessage},
			{ID: "xsource-y", Type: graph.NodeKindMessage},
			{ID: "z", Type: graph.NodeKindMessage},
		},
	}))

	first, err := c.Connect("x", "", "ysource-z", "")
	require.NoError(t, err)
	second, err := c.Connect("xsource-y", "", "z", "")
	require.NoError(t, err, "distinct endpoints are not a duplicate")
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.ID+"~1", second.ID)

	_, err = c.Connect("xsource-y", "", "z", "")
	assert.ErrorIs(t, err, graph.ErrDuplicateEdge)

	require.NoError(t, c.DeleteEdge(first.ID))
	snap := c.Snapshot()
	require.Len(t, snap.Edges, 1)
	assert.Equal(t, "xsource-y", snap.Edges[0].Source)
}
