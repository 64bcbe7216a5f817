package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"spotifyeda/internal/config"
	apierrors "spotifyeda/internal/errors"
	"spotifyeda/internal/infrastructure"
	"spotifyeda/internal/middleware"
	"spotifyeda/internal/operations"
)

// RouterConfig carries the dependencies of NewRouter
type RouterConfig struct {
	Version   string
	Server    config.ServerConfig
	Pipeline  *operations.Pipeline
	Providers *infrastructure.OTelProviders
	Metrics   *infrastructure.PipelineMetrics
	Logger    *slog.Logger
}

// NewRouter builds the chi router with the middleware chain
// RequestID → RealIP → OTel → Logger → Recoverer → SecurityHeaders → RateLimiter
func NewRouter(cfg RouterConfig) chi.Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pipeline := cfg.Pipeline
	if pipeline == nil {
		pipeline = operations.NewPipeline(operations.Options{Metrics: cfg.Metrics, Logger: logger})
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.NewOTelMiddleware(cfg.Providers, cfg.Metrics).Handler)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.SecurityHeaders)
	if cfg.Server.RateLimit.Enabled {
		r.Use(middleware.NewRateLimiter(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst, logger).Handler)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apierrors.Respond(w, r, apierrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apierrors.Respond(w, r, apierrors.New(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		health := NewHealthHandler(cfg.Version, logger)
		r.Get("/health", health.HealthCheck)

		datasets := NewDatasetHandler(pipeline, cfg.Server.MaxUploadBytes, logger)
		r.Mount("/v1/datasets", datasets.Routes())
	})

	if cfg.Providers != nil && cfg.Providers.PrometheusHTTP != nil {
		r.Handle("/metrics", cfg.Providers.PrometheusHTTP)
	}

	return r
}
