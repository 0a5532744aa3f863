package editor

import (
	"github.com/flowgraph/flowbuilder/internal/core/graph"
)

// InspectorView is the editing form of the selected node.
type InspectorView struct {
	NodeID      string         `json:"nodeId"`
	Kind        graph.NodeKind `json:"type"`
	Title       string         `json:"title"`
	FieldLabel  string         `json:"fieldLabel"`
	Placeholder string         `json:"placeholder"`
	Message     string         `json:"message"`
}

func (c *Controller) inspectorViewLocked(node *graph.Node) InspectorView {
	view := InspectorView{
		NodeID:  node.ID,
		Kind:    node.Type,
		Message: node.Data.Message,
	}
	if def, ok := c.kinds.Lookup(node.Type); ok {
		view.Title = def.Editor.Title
		view.FieldLabel = def.Editor.FieldLabel
		view.Placeholder = def.Editor.Placeholder
	}
	return view
}

// Inspector edits the selected node of a controller. It keeps no copy of the
// node; every call reads or writes the controller's canonical state.
type Inspector struct {
	ctrl *Controller
}

// NewInspector binds an inspector to ctrl.
func NewInspector(ctrl *Controller) *Inspector {
	return &Inspector{ctrl: ctrl}
}

// View returns the form for the selected node, or false when nothing is
// selected.
func (i *Inspector) View() (InspectorView, bool) {
	i.ctrl.mu.Lock()
	defer i.ctrl.mu.Unlock()

	node, ok := i.ctrl.selectedLocked()
	if !ok {
		return InspectorView{}, false
	}
	return i.ctrl.inspectorViewLocked(node), true
}

// Change replaces the message with the full text of the field. Empty text
// is allowed.
func (i *Inspector) Change(text string) error {
	return i.ctrl.UpdateSelectedNodeMessage(text)
}

// Delete removes the selected node.
func (i *Inspector) Delete() bool {
	return i.ctrl.DeleteSelectedNode()
}

// Close dismisses the inspector by clearing the selection.
func (i *Inspector) Close() {
	i.ctrl.ClearSelection()
}
