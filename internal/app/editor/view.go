package editor

import (
	"fmt"
	"strings"

	"github.com/flowgraph/flowbuilder/internal/core/gate"
	"github.com/flowgraph/flowbuilder/internal/core/graph"
	"github.com/flowgraph/flowbuilder/internal/core/nodekind"
)

// ColorMode is the theme the canvas renders in.
type ColorMode string

// Supported color modes. ColorModeLight is the default.
const (
	ColorModeLight ColorMode = "light"
	ColorModeDark  ColorMode = "dark"
)

// ParseColorMode accepts "light" or "dark" in any case.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ColorModeLight, ColorModeDark:
		return m, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrInvalidColorMode)
	}
}

// SocketView tells the renderer whether a socket accepts pointer
// interaction for a new connection.
type SocketView struct {
	Role        graph.Socket `json:"role"`
	Limit       int          `json:"limit"`
	Connections int          `json:"connections"`
	Connectable bool         `json:"connectable"`
}

// NodeView is one node as the canvas draws it.
type NodeView struct {
	ID       string         `json:"id"`
	Type     graph.NodeKind `json:"type"`
	Position graph.Position `json:"position"`
	Card     nodekind.Card  `json:"card"`
	Source   SocketView     `json:"source"`
	Target   SocketView     `json:"target"`
	Selected bool           `json:"selected"`
}

// CanvasView is the full render state of the canvas.
type CanvasView struct {
	Nodes     []NodeView     `json:"nodes"`
	Edges     []graph.Edge   `json:"edges"`
	Viewport  graph.Position `json:"viewport"`
	ColorMode ColorMode      `json:"colorMode"`
	Selected  string         `json:"selected,omitempty"`
}

// Canvas renders every node through its kind's renderer and reports the
// connectability of each socket.
func (c *Controller) Canvas() CanvasView {
	c.mu.Lock()
	defer c.mu.Unlock()

	selected := ""
	if node, ok := c.selectedLocked(); ok {
		selected = node.ID
	}

	view := CanvasView{
		Nodes:     make([]NodeView, 0, len(c.flow.Nodes)),
		Edges:     make([]graph.Edge, 0, len(c.flow.Edges)),
		Viewport:  c.viewport,
		ColorMode: c.colorMode,
		Selected:  selected,
	}
	for _, n := range c.flow.Nodes {
		nv := NodeView{
			ID:       n.ID,
			Type:     n.Type,
			Position: n.Position,
			Selected: n.ID == selected,
		}
		if def, ok := c.kinds.Lookup(n.Type); ok {
			nv.Card = def.Renderer.Render(n)
			nv.Source = c.socketViewLocked(n.ID, graph.SocketSource, def.Sockets.Source)
			nv.Target = c.socketViewLocked(n.ID, graph.SocketTarget, def.Sockets.Target)
		}
		view.Nodes = append(view.Nodes, nv)
	}
	for _, e := range c.flow.Edges {
		view.Edges = append(view.Edges, *e)
	}
	return view
}

func (c *Controller) socketViewLocked(nodeID string, socket graph.Socket, g gate.Gate) SocketView {
	count := c.flow.SocketConnections(nodeID, socket)
	return SocketView{
		Role:        socket,
		Limit:       g.Limit,
		Connections: count,
		Connectable: g.Allow(count),
	}
}

// PanelKind names the side panel currently shown.
type PanelKind string

// Side panels
const (
	PanelPalette   PanelKind = "palette"   // no node selected
	PanelInspector PanelKind = "inspector" // a node is selected
)

// PanelView is the side panel: the inspector while a node is selected, the
// palette otherwise.
type PanelView struct {
	Kind      PanelKind             `json:"kind"`
	Inspector *InspectorView        `json:"inspector,omitempty"`
	Palette   []nodekind.Descriptor `json:"palette,omitempty"`
}

// Panel arbitrates between inspector and palette.
func (c *Controller) Panel() PanelView {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.selectedLocked(); ok {
		iv := c.inspectorViewLocked(node)
		return PanelView{Kind: PanelInspector, Inspector: &iv}
	}
	return PanelView{Kind: PanelPalette, Palette: c.kinds.Palette()}
}
