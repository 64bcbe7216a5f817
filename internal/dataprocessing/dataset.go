package dataprocessing

import (
	"fmt"

	apperrors "spotifyeda/internal/errors"
)

// Dataset is an immutable table: ordered column names and ordered rows of
// cells. Every transformation returns a new Dataset. Rows may be shared
// between Datasets since nothing mutates them after construction.
type Dataset struct {
	columns []string
	rows    [][]Value
}

// Record maps column names to the cells of one row
type Record map[string]Value

// NewDataset copies columns and rows into a Dataset. Every row must have one
// cell per column.
func NewDataset(columns []string, rows [][]Value) (*Dataset, error) {
	cols := append([]string(nil), columns...)
	out := make([][]Value, len(rows))
	for i, row := range rows {
		if len(row) != len(cols) {
			return nil, apperrors.NewInvalidInputError(
				fmt.Sprintf("row %d has %d values, want %d", i, len(row), len(cols)), nil)
		}
		out[i] = append([]Value(nil), row...)
	}
	return &Dataset{columns: cols, rows: out}, nil
}

// MustDataset is like NewDataset but panics on a shape mismatch
func MustDataset(columns []string, rows [][]Value) *Dataset {
	ds, err := NewDataset(columns, rows)
	if err != nil {
		panic(err)
	}
	return ds
}

// Columns returns a copy of the column names in order
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// NumColumns returns the number of columns
func (d *Dataset) NumColumns() int { return len(d.columns) }

// Len returns the number of rows
func (d *Dataset) Len() int { return len(d.rows) }

// ColumnIndex returns the position of the first column called name, or -1
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether a column called name exists
func (d *Dataset) HasColumn(name string) bool {
	return d.ColumnIndex(name) >= 0
}

// Row returns a copy of the cells of row i
func (d *Dataset) Row(i int) []Value {
	return append([]Value(nil), d.rows[i]...)
}

// Value returns the cell at row i in column name
func (d *Dataset) Value(i int, name string) (Value, bool) {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		return Value{}, false
	}
	return d.rows[i][idx], true
}

// Record returns row i keyed by column name. With duplicate column names the
// first column wins.
func (d *Dataset) Record(i int) Record {
	rec := make(Record, len(d.columns))
	for j, c := range d.columns {
		if _, seen := rec[c]; !seen {
			rec[c] = d.rows[i][j]
		}
	}
	return rec
}

// Records returns every row as a Record
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.rows))
	for i := range d.rows {
		out[i] = d.Record(i)
	}
	return out
}

// Column returns a copy of the cells in column name
func (d *Dataset) Column(name string) ([]Value, bool) {
	idx := d.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	return d.columnAt(idx), true
}

func (d *Dataset) columnAt(idx int) []Value {
	out := make([]Value, len(d.rows))
	for i, row := range d.rows {
		out[i] = row[idx]
	}
	return out
}

// Select returns a Dataset with only the named columns, in the given order
func (d *Dataset) Select(names ...string) (*Dataset, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		idx[i] = d.ColumnIndex(name)
		if idx[i] < 0 {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("column %q", name))
		}
	}

	rows := make([][]Value, len(d.rows))
	for i, row := range d.rows {
		out := make([]Value, len(idx))
		for j, k := range idx {
			out[j] = row[k]
		}
		rows[i] = out
	}
	return &Dataset{columns: append([]string(nil), names...), rows: rows}, nil
}

// Equal reports whether both datasets have the same columns and cells
func (d *Dataset) Equal(o *Dataset) bool {
	if len(d.columns) != len(o.columns) || len(d.rows) != len(o.rows) {
		return false
	}
	for i := range d.columns {
		if d.columns[i] != o.columns[i] {
			return false
		}
	}
	for i := range d.rows {
		for j := range d.rows[i] {
			if !d.rows[i][j].Equal(o.rows[i][j]) {
				return false
			}
		}
	}
	return true
}

// ColumnProfile counts the cell kinds of one column
type ColumnProfile struct {
	Name    string `json:"name"`
	Strings int    `json:"strings"`
	Ints    int    `json:"ints"`
	Floats  int    `json:"floats"`
	Missing int    `json:"missing"`
}

// Kind summarizes the column: missing when every cell is missing, string
// when any cell is text, float when ints and floats mix, otherwise the single
// kind present.
func (p ColumnProfile) Kind() Kind {
	switch {
	case p.Strings > 0:
		return KindString
	case p.Floats > 0:
		return KindFloat
	case p.Ints > 0:
		return KindInt
	default:
		return KindMissing
	}
}

// Profile counts cell kinds per column
func (d *Dataset) Profile() []ColumnProfile {
	out := make([]ColumnProfile, len(d.columns))
	for j, name := range d.columns {
		p := ColumnProfile{Name: name}
		for _, row := range d.rows {
			switch row[j].kind {
			case KindString:
				p.Strings++
			case KindInt:
				p.Ints++
			case KindFloat:
				p.Floats++
			default:
				p.Missing++
			}
		}
		out[j] = p
	}
	return out
}

// withColumns shares rows with d under new column names
func (d *Dataset) withColumns(columns []string) *Dataset {
	return &Dataset{columns: columns, rows: d.rows}
}

// withRows shares columns with d under a new row set
func (d *Dataset) withRows(rows [][]Value) *Dataset {
	return &Dataset{columns: d.columns, rows: rows}
}
