package validation

import (
	"testing"

	coregraph "github.com/flowgraph/flowbuilder/internal/core/graph"
	"github.com/flowgraph/flowbuilder/internal/core/nodekind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id string) *coregraph.Node {
	return &coregraph.Node{ID: id, Type: coregraph.NodeKindMessage}
}

func TestValidateStructure_Endpoints(t *testing.T) {
	f := &coregraph.Flow{
		Nodes: []*coregraph.Node{node("n1")},
		Edges: []*coregraph.Edge{{Source: "n1", Target: "missing"}},
	}
	assert.ErrorIs(t, ValidateStructure(f), coregraph.ErrTargetNodeNotFound)
}

func TestValidateStructure_DuplicateNodes(t *testing.T) {
	f := &coregraph.Flow{Nodes: []*coregraph.Node{node("n1"), node("n1")}}
	assert.ErrorIs(t, ValidateStructure(f), coregraph.ErrDuplicateNode)
}

func TestValidateStructure_DuplicateEdges(t *testing.T) {
	f := &coregraph.Flow{
		Nodes: []*coregraph.Node{node("n1"), node("n2")},
		Edges: []*coregraph.Edge{
			{ID: "e1", Source: "n1", Target: "n2"},
			{ID: "e2", Source: "n1", Target: "n2"},
		},
	}
	assert.ErrorIs(t, ValidateStructure(f), coregraph.ErrDuplicateEdge)
}

func TestValidateStructure_DuplicateEdgeIDs(t *testing.T) {
	f := &coregraph.Flow{
		Nodes: []*coregraph.Node{node("a"), node("b"), node("c")},
		Edges: []*coregraph.Edge{
			{ID: "e1", Source: "a", Target: "b"},
			{ID: "e1", Source: "c", Target: "b"},
		},
	}
	err := ValidateStructure(f)
	assert.ErrorIs(t, err, coregraph.ErrDuplicateEdgeID)
	assert.NotErrorIs(t, err, coregraph.ErrDuplicateEdge)
}

func TestValidateStructure_AmbiguousDerivedIDs(t *testing.T) {
	// Both edges derive "xy-edge__xsource-ysource-ztarget".
	f := &coregraph.Flow{
		Nodes: []*coregraph.Node{node("x"), node("ysource-z"), node("xsource-y"), node("z")},
		Edges: []*coregraph.Edge{
			{Source: "x", Target: "ysource-z"},
			{Source: "xsource-y", Target: "z"},
		},
	}
	require.NoError(t, ValidateStructure(f))
	assert.Equal(t, "xy-edge__xsource-ysource-ztarget", f.Edges[0].ID)
	assert.Equal(t, "xy-edge__xsource-ysource-ztarget~1", f.Edges[1].ID)
}

func TestValidateStructure_SelfLoop(t *testing.T) {
	f := &coregraph.Flow{
		Nodes: []*coregraph.Node{node("n1")},
		Edges: []*coregraph.Edge{{Source: "n1", Target: "n1"}},
	}
	assert.ErrorIs(t, ValidateStructure(f), coregraph.ErrSelfLoop)
}

func TestValidateStructure_CycleDetection(t *testing.T) {
	f := &coregraph.Flow{
		Nodes: []*coregraph.Node{node("n1"), node("n2")},
		Edges: []*coregraph.Edge{
			{Source: "n1", Target: "n2"},
			{Source: "n2", Target: "n1"},
		},
	}
	// Default does not check cycles
	assert.NoError(t, ValidateStructure(f))
	// Enabling cycle check should error
	assert.ErrorIs(t, ValidateStructure(f, GraphValidationOptions{CheckCycles: true}), ErrCyclicFlow)
}

func TestValidateStructure_Kinds(t *testing.T) {
	kinds := nodekind.Default()

	t.Run("unknown kind", func(t *testing.T) {
		f := &coregraph.Flow{Nodes: []*coregraph.Node{{ID: "n1", Type: "textUpdater"}}}
		assert.ErrorIs(t, ValidateStructure(f, GraphValidationOptions{Kinds: kinds}), nodekind.ErrUnknownKind)
	})

	t.Run("source socket over limit", func(t *testing.T) {
		f := &coregraph.Flow{
			Nodes: []*coregraph.Node{node("a"), node("b"), node("c")},
			Edges: []*coregraph.Edge{
				{Source: "a", Target: "b"},
				{Source: "a", Target: "c"},
			},
		}
		assert.NoError(t, ValidateStructure(f))
		assert.ErrorIs(t, ValidateStructure(f, GraphValidationOptions{Kinds: kinds}), ErrSocketLimitExceeded)
	})

	t.Run("unlimited target socket", func(t *testing.T) {
		f := &coregraph.Flow{
			Nodes: []*coregraph.Node{node("a"), node("b"), node("c")},
			Edges: []*coregraph.Edge{
				{Source: "a", Target: "c"},
				{Source: "b", Target: "c"},
			},
		}
		assert.NoError(t, ValidateStructure(f, GraphValidationOptions{Kinds: kinds}))
	})
}

func TestValidateStructure_Nil(t *testing.T) {
	assert.Error(t, ValidateStructure(nil))
	assert.Error(t, ValidateStructure(&coregraph.Flow{Nodes: []*coregraph.Node{nil}}))
	assert.Error(t, ValidateStructure(&coregraph.Flow{Edges: []*coregraph.Edge{nil}}))
}
