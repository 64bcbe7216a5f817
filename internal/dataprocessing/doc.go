// Package dataprocessing holds the tabular cleaning pipeline for the Spotify
// songs dataset: loading CSV or workbook sources into a typed Dataset,
// normalizing column names, and the basic clean (deduplication, the
// duration_ms filter and all-or-nothing numeric coercion).
//
// # Usage
//
//	ds, err := dataprocessing.Load("data/raw/spotify_songs.csv")
//	if err != nil {
//	    return err
//	}
//	ds = dataprocessing.NormalizeColumns(ds)
//	clean, stats := dataprocessing.BasicCleanWithStats(ds)
//
// Datasets are immutable. Each stage returns a new value and may share row
// storage with its input.
//
// # Type inference
//
// Load infers a kind per column: int when every cell is an integer literal
// and none is missing, float when every present cell is numeric, string
// otherwise. Empty cells and the tokens NA, N/A, NaN, nan, null and NULL are
// missing.
package dataprocessing
