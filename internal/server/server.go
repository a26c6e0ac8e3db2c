package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"tailscale.com/client/tailscale/apitype"

	"github.com/claude/fittrack/internal/metrics"
	"github.com/claude/fittrack/internal/storage"
	"github.com/claude/fittrack/internal/workout"
)

// WhoIser resolves a tailnet peer address to its owner. *local.Client from
// tsnet satisfies it.
type WhoIser interface {
	WhoIs(ctx context.Context, remoteAddr string) (*apitype.WhoIsResponse, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	tracker *workout.Tracker
	store   storage.Store
	metrics *metrics.Manager
	whois   WhoIser
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all API routes configured. store may be nil,
// in which case the catalog save/load routes answer 503. An empty apiKey
// leaves the mutating routes open.
func New(tracker *workout.Tracker, store storage.Store, m *metrics.Manager, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		tracker: tracker,
		store:   store,
		metrics: m,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(Recover(s.log, s.metrics))
	s.router.Use(s.identify)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	if s.metrics != nil {
		s.router.Use(RequestMetrics(s.metrics, s.tracker))
	}

	// Read-only endpoints
	s.router.Get("/api/v1/exercises", s.handleListExercises)
	s.router.Get("/api/v1/exercises/{name}", s.handleGetExercise)
	s.router.Get("/api/v1/routine", s.handleGetRoutine)
	s.router.Get("/api/v1/routine/next", s.handleNextInRoutine)
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/me", s.handleMe)

	// Mutating endpoints (API key required when one is configured)
	s.router.Group(func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(APIKeyAuth(s.apiKey))
		}
		r.Post("/api/v1/exercises", s.handleAddExercise)
		r.Patch("/api/v1/exercises/{name}", s.handleEditExercise)
		r.Delete("/api/v1/exercises/{name}", s.handleDeleteExercise)
		r.Post("/api/v1/routine", s.handleAddToRoutine)
		r.Post("/api/v1/routine/complete", s.handleCompleteNext)
		r.Delete("/api/v1/routine", s.handleClearRoutine)
		r.Post("/api/v1/catalog/save", s.handleSaveCatalog)
		r.Post("/api/v1/catalog/load", s.handleLoadCatalog)
	})
}

// SetMetricsHandler exposes g in the Prometheus text format at /metrics.
func (s *Server) SetMetricsHandler(g prometheus.Gatherer) {
	s.router.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}

// SetMCP mounts an MCP streamable HTTP handler at /mcp, behind the API key
// when one is configured.
func (s *Server) SetMCP(h http.Handler) {
	if s.apiKey != "" {
		h = APIKeyAuth(s.apiKey)(h)
	}
	s.router.Handle("/mcp", h)
}

// SetTailscale enables peer identity lookups for requests arriving over the tailnet.
func (s *Server) SetTailscale(w WhoIser) {
	s.whois = w
}

// SaveCatalog persists the current catalog through the configured store.
func (s *Server) SaveCatalog(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, errNoStore
	}
	records := s.tracker.Snapshot()
	err := s.store.Save(ctx, records)
	if s.metrics != nil {
		s.metrics.ObserveSave(err)
	}
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// LoadCatalog replaces the catalog and routine with the store's latest list.
// Skipped entries are logged one by one.
func (s *Server) LoadCatalog(ctx context.Context) (workout.LoadResult, error) {
	if s.store == nil {
		return workout.LoadResult{}, errNoStore
	}
	entries, err := s.store.Load(ctx)
	if err != nil {
		return workout.LoadResult{}, err
	}
	res := s.tracker.Replace(entries)
	for _, e := range res.Errors() {
		s.log.Warn("skipped stored exercise", "error", e)
	}
	if s.metrics != nil {
		s.metrics.CounterLoadSkipped.Add(float64(res.Skipped))
		s.metrics.Observe(s.tracker.Stats())
	}
	return res, nil
}
