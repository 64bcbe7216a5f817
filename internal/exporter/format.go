package exporter

import (
	"math"

	"spotifyeda/internal/dataprocessing"
)

// formatRow renders cells as CSV fields; missing cells become empty fields
func formatRow(row []dataprocessing.Value) []string {
	out := make([]string, len(row))
	for j, v := range row {
		out[j] = v.String()
	}
	return out
}

// CellValue converts a cell to a plain Go value: string, int64, float64 or
// nil for missing. Infinite floats are rendered as text since neither JSON
// nor spreadsheets can hold them.
func CellValue(v dataprocessing.Value) interface{} {
	switch v.Kind() {
	case dataprocessing.KindString:
		s, _ := v.Str()
		return s
	case dataprocessing.KindInt:
		i, _ := v.Int()
		return i
	case dataprocessing.KindFloat:
		f, _ := v.Float()
		if math.IsInf(f, 0) {
			return v.String()
		}
		return f
	default:
		return nil
	}
}

// RecordValues converts every row of ds into column-keyed plain values
func RecordValues(ds *dataprocessing.Dataset) []map[string]interface{} {
	columns := ds.Columns()
	out := make([]map[string]interface{}, ds.Len())
	for i := range out {
		row := ds.Row(i)
		rec := make(map[string]interface{}, len(columns))
		for j, name := range columns {
			if _, seen := rec[name]; !seen {
				rec[name] = CellValue(row[j])
			}
		}
		out[i] = rec
	}
	return out
}
