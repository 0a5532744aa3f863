package editor

import "github.com/flowgraph/flowbuilder/internal/core/graph"

// Recorder receives counters about editor activity.
type Recorder interface {
	NodeAdded(kind graph.NodeKind)
	NodeDeleted(edgesRemoved int)
	EdgeConnected()
	EdgeRejected(reason string)
	EdgeDeleted()
	SaveAttempted(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) NodeAdded(graph.NodeKind) {}
func (nopRecorder) NodeDeleted(int)          {}
func (nopRecorder) EdgeConnected()           {}
func (nopRecorder) EdgeRejected(string)      {}
func (nopRecorder) EdgeDeleted()             {}
func (nopRecorder) SaveAttempted(string)     {}
