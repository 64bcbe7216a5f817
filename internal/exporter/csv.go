package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"spotifyeda/internal/config"
	"spotifyeda/internal/dataprocessing"
	apperrors "spotifyeda/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// SaveClean writes ds to filename inside the data directory. An empty
// filename selects clean_spotify.csv. It returns the written path.
func (w *CSVWriter) SaveClean(ds *dataprocessing.Dataset, filename string, options WriteOptions) (string, error) {
	path := w.paths.CleanCSVPath(filename)
	if err := w.WriteDataset(path, ds, options); err != nil {
		return "", err
	}
	return path, nil
}

// WriteDataset writes ds to filePath as CSV, creating missing parent
// directories. Relative paths are resolved against the data directory.
func (w *CSVWriter) WriteDataset(filePath string, ds *dataprocessing.Dataset, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing CSV file",
		slog.String("full_path", fullPath),
		slog.Int("record_count", ds.Len()),
		slog.Int("column_count", ds.NumColumns()))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewIOError(fmt.Sprintf("failed to create directory %s", dir), err).
			WithContext("path", fullPath)
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return apperrors.NewIOError(fmt.Sprintf("failed to open %s", fullPath), err).
			WithContext("path", fullPath)
	}

	if err := WriteDatasetTo(file, ds, options); err != nil {
		file.Close()
		return apperrors.NewIOError(fmt.Sprintf("failed to write %s", fullPath), err).
			WithContext("path", fullPath)
	}
	if err := file.Close(); err != nil {
		return apperrors.NewIOError(fmt.Sprintf("failed to close %s", fullPath), err).
			WithContext("path", fullPath)
	}
	return nil
}

// WriteDatasetTo streams ds as CSV to out
func WriteDatasetTo(out io.Writer, ds *dataprocessing.Dataset, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(ds.Columns()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i := 0; i < ds.Len(); i++ {
		if err := writer.Write(formatRow(ds.Row(i))); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// resolvePath resolves a relative path against the data directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	return filepath.Join(w.paths.DataDir, filePath)
}
