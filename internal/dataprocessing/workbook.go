package dataprocessing

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	apperrors "spotifyeda/internal/errors"
)

// LoadWorkbook reads one sheet of an Excel workbook as a dataset. The first
// row is the header; an empty sheet name selects the first sheet.
func LoadWorkbook(path, sheet string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("cannot open workbook %s", path), err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewInvalidInputError(fmt.Sprintf("workbook %s has no sheets", path), nil)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("cannot read sheet %q of %s", sheet, path), err).
			WithContext("sheet", sheet)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("sheet %q of %s has no header row", sheet, path), nil).
			WithContext("sheet", sheet)
	}

	header := rows[0]
	records := rows[1:]
	// GetRows drops trailing empty cells; widen the header to the widest row.
	for _, record := range records {
		for len(header) < len(record) {
			header = append(header, "")
		}
	}

	ds := fromStrings(header, records)

	slog.Debug("Loaded workbook dataset",
		slog.String("source", path),
		slog.String("sheet", sheet),
		slog.Int("rows", ds.Len()),
		slog.Int("columns", ds.NumColumns()))
	return ds, nil
}
