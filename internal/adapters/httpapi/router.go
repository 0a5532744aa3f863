// Package httpapi serves editor sessions over JSON HTTP so a browser
// rendering host can drive the canvas.
package httpapi

import (
	"net/http"
	"time"

	"github.com/flowgraph/flowbuilder/internal/app/services"
	"github.com/flowgraph/flowbuilder/pkg/validation"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// HTTPMetrics records served requests and exposes the scrape endpoint.
type HTTPMetrics interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
	Handler() http.Handler
}

// RouterConfig holds the transport settings of the router.
type RouterConfig struct {
	CORSOrigins []string
	Version     string
}

// Router creates and configures the HTTP router
type Router struct {
	sessions  *services.SessionService
	config    RouterConfig
	logger    *zap.Logger
	metrics   HTTPMetrics
	validator *validation.Middleware
}

// NewRouter creates a new router instance. metrics may be nil, in which
// case /metrics is not served.
func NewRouter(sessions *services.SessionService, config RouterConfig, logger *zap.Logger, metrics HTTPMetrics) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(config.CORSOrigins) == 0 {
		config.CORSOrigins = []string{"*"}
	}
	return &Router{
		sessions:  sessions,
		config:    config,
		logger:    logger,
		metrics:   metrics,
		validator: validation.NewMiddleware(nil),
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(Logger(rt.logger))
	router.Use(chimiddleware.Recoverer)
	if rt.metrics != nil {
		router.Use(Metrics(rt.metrics))
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.config.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Accept-Encoding", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	router.Get("/healthz", rt.healthCheck)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.validator.RequireJSON)

		r.Get("/palette", rt.getPalette)
		r.Get("/config", rt.getConfig)

		r.Route("/flows", func(r chi.Router) {
			r.Post("/", rt.createFlow)
			r.Get("/", rt.listFlows)

			r.Route("/{flowID}", func(r chi.Router) {
				r.Use(rt.loadSession)

				r.Get("/", rt.getFlow)
				r.Delete("/", rt.deleteFlow)
				r.Get("/export", rt.exportFlow)
				r.Post("/viewport", rt.setViewport)

				r.Post("/nodes", rt.dropNode)
				r.Put("/nodes/{nodeID}/position", rt.moveNode)

				r.Post("/edges", rt.connect)
				r.Delete("/edges/{edgeID}", rt.deleteEdge)

				r.Put("/selection", rt.selectNode)
				r.Delete("/selection", rt.clearSelection)
				r.Put("/selection/message", rt.updateMessage)
				r.Delete("/selection/node", rt.deleteSelectedNode)

				r.Get("/panel", rt.getPanel)
				r.Post("/save", rt.save)
				r.Get("/notification", rt.getNotification)
			})
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": rt.config.Version,
	})
}
