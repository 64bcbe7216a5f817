package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved, absolute application paths.
// Every component asks Paths for file locations instead of building them itself.
type Paths struct {
	BaseDir    string
	DataDir    string
	RawDir     string
	ModelsDir  string
	FiguresDir string
	LogsDir    string
}

// Resolve turns the configured layout into absolute paths. An empty BaseDir
// means the current working directory.
func (p PathsConfig) Resolve() (*Paths, error) {
	base := p.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	join := func(dir string) string {
		if filepath.IsAbs(dir) {
			return filepath.Clean(dir)
		}
		return filepath.Join(base, dir)
	}

	return &Paths{
		BaseDir:    base,
		DataDir:    join(p.DataDir),
		RawDir:     join(p.RawDir),
		ModelsDir:  join(p.ModelsDir),
		FiguresDir: join(p.FiguresDir),
		LogsDir:    join(p.LogsDir),
	}, nil
}

// NewPaths resolves the default layout under baseDir
func NewPaths(baseDir string) (*Paths, error) {
	cfg := Default().Paths
	cfg.BaseDir = baseDir
	return cfg.Resolve()
}

// EnsureDirectories creates all output directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		p.DataDir,
		p.ModelsDir,
		p.FiguresDir,
		p.LogsDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// CleanCSVPath returns the location of a cleaned dataset inside DataDir.
// An empty filename selects DefaultCleanFilename.
func (p *Paths) CleanCSVPath(filename string) string {
	if filename == "" {
		filename = DefaultCleanFilename
	}
	return filepath.Join(p.DataDir, filename)
}

// ModelPath returns the location of a persisted model inside ModelsDir
func (p *Paths) ModelPath(filename string) string {
	if filename == "" {
		filename = DefaultModelFilename
	}
	return filepath.Join(p.ModelsDir, filename)
}

// FigurePath returns the location of a rendered figure
func (p *Paths) FigurePath(filename string) string {
	return filepath.Join(p.FiguresDir, filename)
}

// LogPath returns the location of a log file
func (p *Paths) LogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Path resolution",
		slog.String("base_dir", p.BaseDir),
		slog.String("data_dir", p.DataDir),
		slog.String("raw_dir", p.RawDir),
		slog.String("models_dir", p.ModelsDir),
		slog.String("figures_dir", p.FiguresDir),
		slog.String("logs_dir", p.LogsDir))
}
