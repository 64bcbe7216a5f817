package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "spotifyeda/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads a dataset from path, choosing the format by extension:
// .xlsx/.xlsm are read as workbooks (first sheet), everything else as CSV.
func Load(path string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return LoadWorkbook(path, "")
	default:
		return LoadCSV(path)
	}
}

// LoadCSV reads a CSV file whose first row is the header.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("cannot read source %s", path), err)
	}
	defer f.Close()

	ds, err := readCSV(f, path)
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded CSV dataset",
		slog.String("source", path),
		slog.Int("rows", ds.Len()),
		slog.Int("columns", ds.NumColumns()))
	return ds, nil
}

// ReadCSV reads CSV from r. The first record is the header and every record
// must have as many fields as the header.
func ReadCSV(r io.Reader) (*Dataset, error) {
	return readCSV(r, "stream")
}

func readCSV(r io.Reader, source string) (*Dataset, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("%s has no header row", source), nil)
	}
	if err != nil {
		return nil, invalidCSV(source, err)
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, invalidCSV(source, err)
		}
		records = append(records, record)
	}

	return fromStrings(header, records), nil
}

func invalidCSV(source string, err error) error {
	appErr := apperrors.NewInvalidInputError(fmt.Sprintf("malformed CSV in %s", source), err).
		WithContext("source", source)
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		appErr.WithContext("line", parseErr.Line)
	}
	return appErr
}

// fromStrings builds a typed Dataset from raw cells, inferring each column's
// kind. Short records are padded with missing cells.
func fromStrings(header []string, records [][]string) *Dataset {
	columns := append([]string(nil), header...)
	rows := make([][]Value, len(records))
	for i := range rows {
		rows[i] = make([]Value, len(columns))
	}

	texts := make([]string, len(records))
	present := make([]bool, len(records))
	for j := range columns {
		for i, record := range records {
			texts[i] = ""
			if j < len(record) {
				texts[i] = record[j]
			}
			present[i] = !isNAToken(texts[i])
		}

		for i, v := range inferColumn(texts, present) {
			rows[i][j] = v
		}
	}

	return &Dataset{columns: columns, rows: rows}
}

// inferColumn types a column as int, float or string
func inferColumn(texts []string, present []bool) []Value {
	if vals, ok := numericColumn(texts, present); ok {
		return vals
	}
	vals := make([]Value, len(texts))
	for i, text := range texts {
		if present[i] {
			vals[i] = StringValue(text)
		}
	}
	return vals
}
