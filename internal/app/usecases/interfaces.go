package usecases

import (
	"context"
	"time"

	"github.com/flowgraph/flowbuilder/internal/app/editor"
	"github.com/flowgraph/flowbuilder/internal/core/graph"
)

// Session is one open editor canvas.
type Session struct {
	ID        string
	CreatedAt time.Time
	Editor    *editor.Controller
}

// SessionRepository defines the interface for session storage and retrieval
// PRINCIPLES:
// - SRP: Only responsible for keeping sessions
// - DIP: Used for dependency injection
type SessionRepository interface {
	Save(ctx context.Context, s *Session) error
	// SaveWithin stores s only while fewer than limit sessions are held,
	// atomically with the count; zero means no limit.
	SaveWithin(ctx context.Context, s *Session, limit int) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Session, error)
	Count(ctx context.Context) (int, error)
}

// SessionManager opens, finds and closes editor sessions.
type SessionManager interface {
	// Create opens a new empty session.
	Create(ctx context.Context) (*Session, error)

	// Import opens a session seeded with flow.
	Import(ctx context.Context, flow *graph.Flow) (*Session, error)

	// Get returns an open session.
	Get(ctx context.Context, id string) (*Session, error)

	// Close discards a session and its state.
	Close(ctx context.Context, id string) error
}
