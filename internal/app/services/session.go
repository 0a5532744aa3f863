package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flowgraph/flowbuilder/internal/app/dto"
	"github.com/flowgraph/flowbuilder/internal/app/editor"
	"github.com/flowgraph/flowbuilder/internal/app/usecases"
	"github.com/flowgraph/flowbuilder/internal/core/graph"
	"github.com/flowgraph/flowbuilder/internal/core/nodekind"
	"github.com/flowgraph/flowbuilder/internal/core/notify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Metrics is what the session service reports to: editor activity plus the
// number of open sessions.
type Metrics interface {
	editor.Recorder
	SessionsOpen(n int)
}

// SessionConfig holds the settings applied to every new session.
type SessionConfig struct {
	// MaxSessions caps open sessions; zero means no cap.
	MaxSessions     int
	ColorMode       editor.ColorMode
	NotificationTTL time.Duration
	Kinds           *nodekind.Registry
	// Sinks receive every notification shown in any session.
	Sinks []notify.Sink
}

// SessionService implements the SessionManager interface
// PRINCIPLES:
// - SRP: Manages editor session lifecycle
// - KISS: One controller per session, nothing shared between them but config
type SessionService struct {
	repo    usecases.SessionRepository
	config  SessionConfig
	logger  *zap.Logger
	metrics Metrics
	now     func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(repo usecases.SessionRepository, config SessionConfig, logger *zap.Logger, metrics Metrics) *SessionService {
	if config.Kinds == nil {
		config.Kinds = nodekind.Default()
	}
	if config.ColorMode == "" {
		config.ColorMode = editor.ColorModeLight
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		repo:    repo,
		config:  config,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// Create opens a new empty session
func (s *SessionService) Create(ctx context.Context) (*usecases.Session, error) {
	id := uuid.New().String()
	logger := s.logger.With(zap.String("flow_id", id))

	surfaceOpts := []notify.Option{notify.WithSinks(s.config.Sinks...)}
	if s.config.NotificationTTL != 0 {
		surfaceOpts = append(surfaceOpts, notify.WithTTL(s.config.NotificationTTL))
	}

	opts := []editor.Option{
		editor.WithRegistry(s.config.Kinds),
		editor.WithColorMode(s.config.ColorMode),
		editor.WithSurface(notify.NewSurface(surfaceOpts...)),
		editor.WithLogger(logger),
	}
	if s.metrics != nil {
		opts = append(opts, editor.WithRecorder(s.metrics))
	}

	session := &usecases.Session{
		ID:        id,
		CreatedAt: s.now(),
		Editor:    editor.New(opts...),
	}
	if err := s.repo.SaveWithin(ctx, session, s.config.MaxSessions); err != nil {
		if errors.Is(err, dto.ErrSessionLimit) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.reportOpen(ctx)
	logger.Info("flow session opened")
	return session, nil
}

// Import opens a session seeded with flow. Nothing is stored when the flow
// is rejected.
func (s *SessionService) Import(ctx context.Context, flow *graph.Flow) (*usecases.Session, error) {
	session, err := s.Create(ctx)
	if err != nil {
		return nil, err
	}
	if err := session.Editor.Load(flow); err != nil {
		_ = s.Close(ctx, session.ID)
		return nil, err
	}
	return session, nil
}

// Get returns an open session
func (s *SessionService) Get(ctx context.Context, id string) (*usecases.Session, error) {
	if id == "" {
		return nil, dto.ErrMissingFlowID
	}
	return s.repo.Get(ctx, id)
}

// Close discards a session
func (s *SessionService) Close(ctx context.Context, id string) error {
	if id == "" {
		return dto.ErrMissingFlowID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.reportOpen(ctx)
	s.logger.Info("flow session closed", zap.String("flow_id", id))
	return nil
}

// List returns all open sessions, oldest first
func (s *SessionService) List(ctx context.Context) ([]*usecases.Session, error) {
	return s.repo.List(ctx)
}

// Config returns the settings sessions are created with
func (s *SessionService) Config() SessionConfig {
	return s.config
}

func (s *SessionService) reportOpen(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	n, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Warn("failed to count sessions", zap.Error(err))
		return
	}
	s.metrics.SessionsOpen(n)
}
