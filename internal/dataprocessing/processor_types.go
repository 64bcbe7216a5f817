package dataprocessing

// Processor defines a single dataset transformation stage
type Processor interface {
	// Process returns a new dataset; the input is never modified
	Process(ds *Dataset) *Dataset
}

// ProcessorFunc adapts a function to Processor
type ProcessorFunc func(ds *Dataset) *Dataset

// Process calls f(ds)
func (f ProcessorFunc) Process(ds *Dataset) *Dataset { return f(ds) }

const (
	// DurationColumn is the track length column used by the duration filter
	DurationColumn = "duration_ms"
	// MinDurationMS is the exclusive lower bound for kept tracks
	MinDurationMS = 1000
)

// CleanStats describes what BasicClean removed and converted.
// CoercionDuplicatesRemoved counts rows that only became duplicates once
// their text cells were converted to numbers.
type CleanStats struct {
	InputRows                 int      `json:"input_rows"`
	DuplicatesRemoved         int      `json:"duplicates_removed"`
	ShortTracksRemoved        int      `json:"short_tracks_removed"`
	CoercedColumns            []string `json:"coerced_columns"`
	CoercionDuplicatesRemoved int      `json:"coercion_duplicates_removed"`
	OutputRows                int      `json:"output_rows"`
}
