// Package http assembles the API server: route tree, middleware stack, and
// the server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MolForge-AI/internal/interfaces/http/handlers"
	"github.com/turtacn/MolForge-AI/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware the route tree needs.
type RouterConfig struct {
	GenerationHandler *handlers.GenerationHandler
	BatchHandler      *handlers.BatchHandler
	HealthHandler     *handlers.HealthHandler

	RateLimiter     middleware.Limiter
	RateLimitConfig *middleware.RateLimitConfig
	CORSConfig      *middleware.CORSConfig

	Logger  logging.Logger
	Metrics *prometheus.Metrics
}

// NewRouter builds the complete route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if cfg.CORSConfig != nil {
		r.Use(middleware.CORS(*cfg.CORSConfig))
	}
	r.Use(middleware.RequestLogging(logger, middleware.DefaultLoggingConfig()))
	if cfg.Metrics != nil {
		r.Use(middleware.RequestMetrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		rlCfg := middleware.DefaultRateLimitConfig()
		if cfg.RateLimitConfig != nil {
			rlCfg = *cfg.RateLimitConfig
		}
		r.Use(middleware.RateLimit(cfg.RateLimiter, rlCfg, logger))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.GenerationHandler != nil {
			api.Post("/molecules/generate", cfg.GenerationHandler.Generate)
			api.Post("/molecules/optimize", cfg.GenerationHandler.Optimize)
		}
		if cfg.BatchHandler != nil {
			api.Get("/batches/{batchID}", cfg.BatchHandler.GetByID)
		}
	})

	return r
}
