package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"spotifyeda/internal/config"
	"spotifyeda/internal/files"
	"spotifyeda/internal/infrastructure"
)

// BatchCleanPattern matches the per-file outputs of a batch cleaning run
const BatchCleanPattern = "clean_*.csv"

// Runtime bundles what the command line tools share
type Runtime struct {
	Config *config.Config
	Paths  *config.Paths
	Logger *slog.Logger
}

// LoadRuntime loads configuration, falling back to config.Default when it
// cannot be read, resolves the path layout and builds a logger. Console logs
// go to stderr so stdout stays free for tool output.
func LoadRuntime(component string) (*Runtime, error) {
	return loadRuntime(component, os.Stderr)
}

func loadRuntime(component string, console io.Writer) (*Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		infrastructure.WithError(slog.Default(), err).Warn("Failed to load config, using defaults")
		cfg = config.Default()
	}

	logger, err := infrastructure.NewLogger(cfg.Logging, console)
	if err != nil {
		infrastructure.WithError(slog.Default(), err).Warn("Failed to initialize logger, using default")
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, component)
	slog.SetDefault(logger)

	paths, err := cfg.Paths.Resolve()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	paths.LogPathResolution(logger)

	return &Runtime{Config: cfg, Paths: paths, Logger: logger}, nil
}

// CleanInput returns the dataset the modeling and figure tools read when no
// input is given: the configured clean file, or else the most recent batch
// output in the data directory. Without either it returns the configured
// path so loading reports it as missing.
func (rt *Runtime) CleanInput() string {
	path := rt.Paths.CleanCSVPath(rt.Config.Cleaning.CleanFilename)
	if _, err := os.Stat(path); err == nil {
		return path
	}

	found, err := files.NewDiscovery(rt.Paths.DataDir).FindFilesByPattern(".", BatchCleanPattern)
	if err != nil {
		rt.Logger.Debug("No batch outputs found", slog.String("dir", rt.Paths.DataDir))
		return path
	}
	if latest, ok := files.GetLatestFile(found); ok {
		rt.Logger.Info("Using latest cleaned dataset", slog.String("path", latest.Path))
		return latest.Path
	}
	return path
}
