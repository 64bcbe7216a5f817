package validation

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "spotifyeda/internal/errors"
	"spotifyeda/internal/files"
)

// FileValidator checks source files and output directories before the
// cleaner touches them.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateSourceFile checks that path is a non-empty, readable CSV or
// workbook file. Failures are InvalidInput errors.
func (v *FileValidator) ValidateSourceFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Source file does not exist",
			slog.String("file", path))
		return apperrors.NewInvalidInputError(fmt.Sprintf("source %s does not exist", path), err)
	}
	if err != nil {
		v.logger.Error("Failed to stat source file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewInvalidInputError(fmt.Sprintf("cannot stat source %s", path), err)
	}
	if !info.Mode().IsRegular() {
		v.logger.Error("Source is not a regular file",
			slog.String("path", path))
		return apperrors.NewInvalidInputError(fmt.Sprintf("%s is not a regular file", path), nil)
	}

	name := filepath.Base(path)
	if strings.HasPrefix(name, "~$") {
		v.logger.Warn("Skipping office lock file",
			slog.String("file", path))
		return apperrors.NewInvalidInputError(fmt.Sprintf("%s is an office lock file", path), nil)
	}
	if !files.IsDataFile(name) {
		ext := strings.ToLower(filepath.Ext(name))
		v.logger.Error("Unsupported source extension",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewInvalidInputError(
			fmt.Sprintf("%s has unsupported extension %q (want one of %s)", path, ext, strings.Join(files.DataExtensions, ", ")), nil)
	}
	if info.Size() == 0 {
		v.logger.Error("Source file is empty",
			slog.String("file", path))
		return apperrors.NewInvalidInputError(fmt.Sprintf("source %s is empty", path), nil)
	}

	f, err := os.Open(path)
	if err != nil {
		v.logger.Error("Source file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewInvalidInputError(fmt.Sprintf("source %s is not readable", path), err)
	}
	defer f.Close()
	if _, err := f.Read(make([]byte, 1)); err != nil && err != io.EOF {
		return apperrors.NewInvalidInputError(fmt.Sprintf("source %s is not readable", path), err)
	}

	v.logger.Debug("Source file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateInputDirectory checks that dir exists and returns how many data
// files it holds. An empty directory is not an error.
func (v *FileValidator) ValidateInputDirectory(dir string) (int, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return 0, apperrors.NewInvalidInputError(fmt.Sprintf("input directory %s does not exist", dir), err)
	}
	if err != nil {
		return 0, apperrors.NewInvalidInputError(fmt.Sprintf("cannot stat directory %s", dir), err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return 0, apperrors.NewInvalidInputError(fmt.Sprintf("%s is not a directory", dir), nil)
	}

	found, err := files.NewDiscovery("").FindDataFiles(dir)
	if err != nil {
		return 0, apperrors.NewInvalidInputError(fmt.Sprintf("cannot list %s", dir), err)
	}
	if len(found) == 0 {
		v.logger.Warn("No data files found",
			slog.String("directory", dir))
		return 0, nil
	}

	v.logger.Info("Input directory validated",
		slog.String("directory", dir),
		slog.Int("files_found", len(found)))
	return len(found), nil
}

// ValidateOutputDirectory ensures dir exists and is writable. Failures are
// IO errors.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewIOError(fmt.Sprintf("cannot create output directory %s", dir), err)
	}

	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewIOError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
