package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/usersvc/usersvc/internal/metrics"
	"github.com/usersvc/usersvc/internal/middleware"
)

// RouterConfig carries the dependencies for the HTTP router.
type RouterConfig struct {
	Logger      *slog.Logger
	Users       *UserHandler
	Health      *HealthHandler
	Metrics     *MetricsHandler
	ReplayStore middleware.ReplayStore
	Recorder    metrics.Recorder
}

// NewRouter configures the chi router with all routes and middleware.
// Only the create endpoint is idempotency-gated; reads are naturally safe
// to repeat.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))

	h := New()
	r.Get("/", h.Hello)
	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	r.Get("/metrics", cfg.Metrics.Metrics)

	idem := middleware.Idempotency(middleware.IdempotencyConfig{
		Logger:  cfg.Logger,
		Store:   cfg.ReplayStore,
		Metrics: cfg.Recorder,
	})

	r.Route("/api/users", func(r chi.Router) {
		r.With(idem).Post("/", cfg.Users.Create)
		r.Get("/", cfg.Users.List)
		r.Get("/{id}", cfg.Users.Get)
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
