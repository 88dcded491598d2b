// Package api provides the HTTP surface of the widget server: the public
// widget endpoint, engagement tracking, the embed script and previews.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/walloflove/wol-server/internal/ratelimit"
	"github.com/walloflove/wol-server/internal/task"
)

// Pinger reports whether the storage collaborator is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TaskQueue is the background queue engagement increments are handed to.
type TaskQueue interface {
	task.Submitter
	Reject(name, reason string)
	Stats() task.Stats
}

// Options configures the HTTP surface.
type Options struct {
	// PublicURL is the origin embedded into served scripts. When empty it
	// is derived from the incoming request.
	PublicURL        string
	AllowedOrigins   []string
	ScriptCacheTTL   time.Duration
	AutoplayInterval time.Duration
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db           Pinger
	services     *Services
	tasks        TaskQueue
	trackLimiter *ratelimit.KeyedRateLimiter
	opts         Options
	router       *chi.Mux
	api          huma.API
	logger       *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// A nil trackLimiter disables rate limiting of tracking calls.
func NewServer(db Pinger, services *Services, tasks TaskQueue, trackLimiter *ratelimit.KeyedRateLimiter, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		db:           db,
		services:     services,
		tasks:        tasks,
		trackLimiter: trackLimiter,
		opts:         opts,
		router:       chi.NewRouter(),
		logger:       logger,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Wall of Love Widget API", "1.0.0")
	humaConfig.Info.Description = "Public endpoints consumed by embedded testimonial widgets."
	// Responses are plain objects; no $schema links.
	humaConfig.CreateHooks = nil
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerWidgetRoutes()
	s.registerEmbedRoutes()
	s.registerHealthRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(clientIPMiddleware)

	// Widgets are embedded on arbitrary customer pages.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}
