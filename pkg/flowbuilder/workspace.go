package flowbuilder

import (
	"context"

	sessionrepo "github.com/flowgraph/flowbuilder/internal/adapters/repository/session"
	"github.com/flowgraph/flowbuilder/internal/app/editor"
	"github.com/flowgraph/flowbuilder/internal/app/services"
	"github.com/flowgraph/flowbuilder/internal/app/usecases"
	"github.com/flowgraph/flowbuilder/internal/core/graph"
	"github.com/flowgraph/flowbuilder/internal/core/nodekind"
	"github.com/flowgraph/flowbuilder/pkg/validation"
	"go.uber.org/zap"
)

// Re-export the flow and editor types for convenience
type (
	Flow       = graph.Flow
	Node       = graph.Node
	Edge       = graph.Edge
	Position   = graph.Position
	NodeKind   = graph.NodeKind
	Editor     = editor.Controller
	SaveResult = editor.SaveResult
	Session    = usecases.Session
)

// NodeKindMessage is the only node kind the default palette offers.
const NodeKindMessage = graph.NodeKindMessage

// NewEditor creates a standalone editor with the default palette.
func NewEditor(opts ...editor.Option) *Editor {
	return editor.New(opts...)
}

// Validate runs the save checks on f without an editor.
func Validate(f *Flow) error {
	if err := validation.ValidateStructure(f, validation.GraphValidationOptions{Kinds: nodekind.Default()}); err != nil {
		return err
	}
	return validation.ValidateFlow(f)
}

// Workspace is a simple façade over the session service. The default
// workspace keeps sessions in memory and is suitable for local usage and
// tests.
type Workspace struct {
	sessions usecases.SessionManager
}

// NewWorkspace constructs a workspace with in-memory sessions. A nil logger
// discards output.
func NewWorkspace(logger *zap.Logger) *Workspace {
	return &Workspace{
		sessions: services.NewSessionService(
			sessionrepo.NewInMemorySessionRepository(),
			services.SessionConfig{},
			logger,
			nil,
		),
	}
}

// Open starts an empty editor session.
func (w *Workspace) Open(ctx context.Context) (*Session, error) {
	return w.sessions.Create(ctx)
}

// Import starts a session seeded with f.
func (w *Workspace) Import(ctx context.Context, f *Flow) (*Session, error) {
	return w.sessions.Import(ctx, f)
}

// Get returns an open session.
func (w *Workspace) Get(ctx context.Context, id string) (*Session, error) {
	return w.sessions.Get(ctx, id)
}

// Close discards a session.
func (w *Workspace) Close(ctx context.Context, id string) error {
	return w.sessions.Close(ctx, id)
}
