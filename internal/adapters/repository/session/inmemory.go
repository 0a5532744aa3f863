package sessionrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/flowgraph/flowbuilder/internal/app/dto"
	"github.com/flowgraph/flowbuilder/internal/app/usecases"
)

// InMemorySessionRepository keeps editor sessions in process memory
// PRINCIPLES:
// - KISS: Simple map-based storage
// - SRP: Only responsible for holding sessions
// - Thread-safe
type InMemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*usecases.Session
}

func NewInMemorySessionRepository() *InMemorySessionRepository {
	return &InMemorySessionRepository{
		sessions: make(map[string]*usecases.Session),
	}
}

func (r *InMemorySessionRepository) Save(ctx context.Context, s *usecases.Session) error {
	return r.SaveWithin(ctx, s, 0)
}

// SaveWithin stores s unless limit sessions are already held. The check and
// the insert happen under one lock. A limit of zero means no cap; replacing
// a stored session never counts against it.
func (r *InMemorySessionRepository) SaveWithin(ctx context.Context, s *usecases.Session, limit int) error {
	if s == nil || s.ID == "" {
		return dto.ErrMissingFlowID
	}
	if s.Editor == nil {
		return fmt.Errorf("session %s: no editor", s.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[s.ID]; !exists && limit > 0 && len(r.sessions) >= limit {
		return fmt.Errorf("%d open: %w", len(r.sessions), dto.ErrSessionLimit)
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *InMemorySessionRepository) Get(ctx context.Context, id string) (*usecases.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, dto.ErrSessionNotFound)
	}
	return s, nil
}

func (r *InMemorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%s: %w", id, dto.ErrSessionNotFound)
	}
	delete(r.sessions, id)
	return nil
}

// List returns sessions oldest first.
func (r *InMemorySessionRepository) List(ctx context.Context) ([]*usecases.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*usecases.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *InMemorySessionRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions), nil
}
