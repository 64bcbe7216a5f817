package dataprocessing

import (
	"strings"
)

// NormalizeColumns renames every column: trim surrounding whitespace,
// lowercase, then replace each space with an underscore. Rows are shared
// with the input. Applying it twice gives the same names as applying it once.
func NormalizeColumns(ds *Dataset) *Dataset {
	columns := make([]string, len(ds.columns))
	for i, name := range ds.columns {
		columns[i] = NormalizeColumnName(name)
	}
	return ds.withColumns(columns)
}

// NormalizeColumnName applies the column naming rule to one name
func NormalizeColumnName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// BasicClean drops duplicate rows, drops tracks not longer than
// MinDurationMS, and converts fully numeric text columns to numbers.
func BasicClean(ds *Dataset) *Dataset {
	out, _ := BasicCleanWithStats(ds)
	return out
}

// BasicCleanWithStats is BasicClean plus a summary of what changed.
func BasicCleanWithStats(ds *Dataset) (*Dataset, CleanStats) {
	stats := CleanStats{InputRows: ds.Len()}

	deduped := DropDuplicates(ds)
	stats.DuplicatesRemoved = ds.Len() - deduped.Len()

	filtered := FilterShortTracks(deduped)
	stats.ShortTracksRemoved = deduped.Len() - filtered.Len()

	coerced, columns := CoerceNumeric(filtered)
	stats.CoercedColumns = columns
	if len(columns) > 0 {
		// "1" and "01" become the same number.
		before := coerced.Len()
		coerced = DropDuplicates(coerced)
		stats.CoercionDuplicatesRemoved = before - coerced.Len()
	}
	stats.OutputRows = coerced.Len()

	return coerced, stats
}

// DropDuplicates keeps the first occurrence of every distinct row, in order.
// Missing cells compare equal to each other.
func DropDuplicates(ds *Dataset) *Dataset {
	seen := make(map[string]struct{}, len(ds.rows))
	rows := make([][]Value, 0, len(ds.rows))

	var b strings.Builder
	for _, row := range ds.rows {
		b.Reset()
		for _, v := range row {
			v.key(&b)
		}
		key := b.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, row)
	}
	return ds.withRows(rows)
}

// FilterShortTracks keeps rows whose DurationColumn is numeric and greater
// than MinDurationMS. Text cells are parsed as numbers; missing or
// unparseable durations are dropped. Without the column it is a no-op.
func FilterShortTracks(ds *Dataset) *Dataset {
	idx := ds.ColumnIndex(DurationColumn)
	if idx < 0 {
		return ds
	}

	rows := make([][]Value, 0, len(ds.rows))
	for _, row := range ds.rows {
		if d, ok := numericCell(row[idx]); ok && d > MinDurationMS {
			rows = append(rows, row)
		}
	}
	return ds.withRows(rows)
}

func numericCell(v Value) (float64, bool) {
	if s, ok := v.Str(); ok {
		parsed, ok := ParseNumber(s)
		if !ok {
			return 0, false
		}
		return parsed.Float()
	}
	return v.Float()
}

// CoerceNumeric converts every all-text column whose cells all parse as
// numbers. A single unparseable cell leaves the whole column as text.
// It returns the names of converted columns.
func CoerceNumeric(ds *Dataset) (*Dataset, []string) {
	var coerced []string
	var rows [][]Value

	texts := make([]string, len(ds.rows))
	present := make([]bool, len(ds.rows))
	for j, name := range ds.columns {
		if !isTextColumn(ds, j) {
			continue
		}
		for i, row := range ds.rows {
			texts[i], present[i] = row[j].Str()
		}
		vals, ok := numericColumn(texts, present)
		if !ok {
			continue
		}

		if rows == nil {
			rows = make([][]Value, len(ds.rows))
			for i, row := range ds.rows {
				rows[i] = append([]Value(nil), row...)
			}
		}
		for i := range rows {
			rows[i][j] = vals[i]
		}
		coerced = append(coerced, name)
	}

	if rows == nil {
		return ds, nil
	}
	return ds.withRows(rows), coerced
}

// isTextColumn reports whether column j holds only text and missing cells
// with at least one text cell.
func isTextColumn(ds *Dataset, j int) bool {
	anyText := false
	for _, row := range ds.rows {
		switch row[j].Kind() {
		case KindString:
			anyText = true
		case KindMissing:
		default:
			return false
		}
	}
	return anyText
}

// CleaningProcessor runs NormalizeColumns followed by BasicClean
type CleaningProcessor struct {
	Normalize bool
	last      CleanStats
}

// NewCleaningProcessor creates a processor that normalizes column names first
func NewCleaningProcessor() *CleaningProcessor {
	return &CleaningProcessor{Normalize: true}
}

// Process implements Processor
func (p *CleaningProcessor) Process(ds *Dataset) *Dataset {
	if p.Normalize {
		ds = NormalizeColumns(ds)
	}
	out, stats := BasicCleanWithStats(ds)
	p.last = stats
	return out
}

// Stats returns the statistics of the most recent Process call
func (p *CleaningProcessor) Stats() CleanStats {
	return p.last
}
