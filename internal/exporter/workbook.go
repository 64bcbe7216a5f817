package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"spotifyeda/internal/dataprocessing"
	apperrors "spotifyeda/internal/errors"
)

// DefaultSheet names the sheet written when none is given
const DefaultSheet = "data"

// WorkbookWriter exports datasets as .xlsx workbooks
type WorkbookWriter struct{}

// NewWorkbookWriter creates a new workbook writer
func NewWorkbookWriter() *WorkbookWriter {
	return &WorkbookWriter{}
}

// WriteDataset writes ds to a single-sheet workbook at path. Numbers are
// stored as numeric cells and missing cells are left blank.
func (w *WorkbookWriter) WriteDataset(path, sheet string, ds *dataprocessing.Dataset) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return apperrors.NewIOError(fmt.Sprintf("invalid sheet name %q", sheet), err)
	}

	header := make([]interface{}, ds.NumColumns())
	for j, name := range ds.Columns() {
		header[j] = name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apperrors.NewIOError("failed to write header row", err)
	}

	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = CellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperrors.NewIOError("row out of range", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return apperrors.NewIOError(fmt.Sprintf("failed to write row %d", i), err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewIOError(fmt.Sprintf("failed to create directory for %s", path), err)
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.NewIOError(fmt.Sprintf("failed to save workbook %s", path), err)
	}

	slog.Info("Wrote workbook",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("record_count", ds.Len()))
	return nil
}
