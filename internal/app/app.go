package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"

	"spotifyeda/internal/config"
	"spotifyeda/internal/infrastructure"
	"spotifyeda/internal/operations"
	handlers "spotifyeda/internal/transport/http"
	"spotifyeda/internal/validation"
)

// AppName is reported in startup logs
const AppName = "Spotify EDA"

// Version is overridden at build time with -ldflags "-X spotifyeda/internal/app.Version=..."
var Version = "dev"

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        chi.Router
	Server        *http.Server
	Pipeline      *operations.Pipeline
	Metrics       *infrastructure.PipelineMetrics
	OTelProviders *infrastructure.OTelProviders
	Logger        *slog.Logger

	mu       sync.Mutex
	listener net.Listener
}

// NewApplication builds the application from cfg. A nil logger uses
// slog.Default.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	paths, err := cfg.Paths.Resolve()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreatePipelineMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Metrics:       metrics,
		OTelProviders: otelProviders,
		Logger:        logger,
		Pipeline: operations.NewPipeline(operations.Options{
			Tracer:  otelProviders.Tracer,
			Metrics: metrics,
			Logger:  logger,
		}),
	}
	a.setupRouter()
	a.createServer()

	return a, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	a.Router = handlers.NewRouter(handlers.RouterConfig{
		Version:   Version,
		Server:    a.Config.Server,
		Pipeline:  a.Pipeline,
		Providers: a.OTelProviders,
		Metrics:   a.Metrics,
		Logger:    a.Logger,
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Addr returns the address the server listens on once started
func (a *Application) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return a.Server.Addr
	}
	return a.listener.Addr().String()
}

func (a *Application) listenerReady() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.listener != nil
}

// Start binds the listener and serves in the background. A serve failure
// calls cancel so Run can unwind.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.mu.Lock()
	a.listener = ln
	a.mu.Unlock()

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			infrastructure.WithError(a.Logger, err).ErrorContext(ctx, "Server error")
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", a.Addr()),
		slog.String("data_dir", a.Paths.DataDir),
		slog.String("level", a.Config.Logging.Level))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx := ctx
	if a.Config.Server.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
		defer cancel()
	}

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			infrastructure.WithError(a.Logger, err).ErrorContext(ctx, "Error shutting down OpenTelemetry")
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.serveUntil(sigCtx, cancel)
}

// serveUntil starts the server and stops it once ctx is done
func (a *Application) serveUntil(ctx context.Context, cancel context.CancelFunc) error {
	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.InfoContext(context.Background(), "Received shutdown signal")

	return a.Stop(context.Background())
}

// performStartupHealthCheck verifies the output directories are writable
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	validator := validation.NewFileValidator(a.Logger)
	var errs []error
	for _, dir := range []string{a.Paths.DataDir, a.Paths.ModelsDir, a.Paths.FiguresDir} {
		if err := validator.ValidateOutputDirectory(dir); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	a.Logger.DebugContext(ctx, "Startup health check passed")
	return nil
}
