// Package exporter writes datasets to disk.
//
// CSVWriter serializes a Dataset to CSV: a header row from the column names,
// one row per record, no index column, with missing parent directories
// created on the way. WorkbookWriter does the same for .xlsx files.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths)
//	path, err := writer.SaveClean(ds, "") // data/clean_spotify.csv
package exporter
