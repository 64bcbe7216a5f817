package operations

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"spotifyeda/internal/dataprocessing"
	"spotifyeda/internal/exporter"
)

// Source produces the raw Dataset of a run
type Source func(ctx context.Context) (*dataprocessing.Dataset, error)

// Sink consumes the final Dataset of a run and returns where it went, if
// anywhere addressable.
type Sink func(ctx context.Context, ds *dataprocessing.Dataset) (string, error)

// FileSource loads a .csv or workbook file. sheet only applies to workbooks.
func FileSource(path, sheet string) Source {
	return func(ctx context.Context) (*dataprocessing.Dataset, error) {
		if sheet != "" && isWorkbook(path) {
			return dataprocessing.LoadWorkbook(path, sheet)
		}
		return dataprocessing.Load(path)
	}
}

// ReaderSource parses CSV text from r
func ReaderSource(r io.Reader) Source {
	return func(ctx context.Context) (*dataprocessing.Dataset, error) {
		return dataprocessing.ReadCSV(r)
	}
}

// CSVSink writes the Dataset through w. Relative filenames land in the data
// directory.
func CSVSink(w *exporter.CSVWriter, filename string, opts exporter.WriteOptions) Sink {
	return func(ctx context.Context, ds *dataprocessing.Dataset) (string, error) {
		return w.SaveClean(ds, filename, opts)
	}
}

// WorkbookSink writes the Dataset to an .xlsx file
func WorkbookSink(w *exporter.WorkbookWriter, path, sheet string) Sink {
	return func(ctx context.Context, ds *dataprocessing.Dataset) (string, error) {
		if err := w.WriteDataset(path, sheet, ds); err != nil {
			return "", err
		}
		return path, nil
	}
}

// WriterSink streams the Dataset as CSV to out
func WriterSink(out io.Writer, opts exporter.WriteOptions) Sink {
	return func(ctx context.Context, ds *dataprocessing.Dataset) (string, error) {
		return "", exporter.WriteDatasetTo(out, ds, opts)
	}
}

func isWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// LoadStep reads the source into the operation state
type LoadStep struct {
	BaseStep
	source Source
}

// NewLoadStep creates the load Step
func NewLoadStep(source Source) *LoadStep {
	return &LoadStep{BaseStep: NewBaseStep(StepIDLoad, StepNameLoad), source: source}
}

// Execute runs the source
func (s *LoadStep) Execute(ctx context.Context, state *OperationState) error {
	if s.source == nil {
		return NewInvalidStateError(s.ID(), "no source configured")
	}
	ds, err := s.source(ctx)
	if err != nil {
		return err
	}
	if ds == nil {
		return NewInvalidStateError(s.ID(), "source returned no dataset")
	}
	state.SetDataset(ds)
	recordShape(state, s.ID(), ds)
	return nil
}

// NormalizeStep canonicalizes the column names
type NormalizeStep struct {
	BaseStep
}

// NewNormalizeStep creates the normalize Step
func NewNormalizeStep() *NormalizeStep {
	return &NormalizeStep{BaseStep: NewBaseStep(StepIDNormalize, StepNameNormalize)}
}

// Execute normalizes the working Dataset
func (s *NormalizeStep) Execute(ctx context.Context, state *OperationState) error {
	ds := state.Dataset()
	if ds == nil {
		return NewInvalidStateError(s.ID(), "no dataset loaded")
	}
	out := dataprocessing.NormalizeColumns(ds)
	state.SetDataset(out)
	recordShape(state, s.ID(), out)
	return nil
}

// CleanStep applies the basic cleaning rules
type CleanStep struct {
	BaseStep
}

// NewCleanStep creates the clean Step
func NewCleanStep() *CleanStep {
	return &CleanStep{BaseStep: NewBaseStep(StepIDClean, StepNameClean)}
}

// Execute cleans the working Dataset and stores the CleanStats
func (s *CleanStep) Execute(ctx context.Context, state *OperationState) error {
	ds := state.Dataset()
	if ds == nil {
		return NewInvalidStateError(s.ID(), "no dataset loaded")
	}
	out, stats := dataprocessing.BasicCleanWithStats(ds)
	state.SetDataset(out)
	state.SetContext(ContextKeyCleanStats, stats)
	recordShape(state, s.ID(), out)
	if step := state.GetStep(s.ID()); step != nil {
		step.SetMetadata("duplicates_removed", stats.DuplicatesRemoved)
		step.SetMetadata("coercion_duplicates_removed", stats.CoercionDuplicatesRemoved)
		step.SetMetadata("short_tracks_removed", stats.ShortTracksRemoved)
		step.SetMetadata("coerced_columns", stats.CoercedColumns)
	}
	return nil
}

// SaveStep hands the working Dataset to the sink
type SaveStep struct {
	BaseStep
	sink Sink
}

// NewSaveStep creates the save Step
func NewSaveStep(sink Sink) *SaveStep {
	return &SaveStep{BaseStep: NewBaseStep(StepIDSave, StepNameSave), sink: sink}
}

// Execute runs the sink
func (s *SaveStep) Execute(ctx context.Context, state *OperationState) error {
	ds := state.Dataset()
	if ds == nil {
		return NewInvalidStateError(s.ID(), "no dataset loaded")
	}
	if s.sink == nil {
		return NewInvalidStateError(s.ID(), "no sink configured")
	}
	path, err := s.sink(ctx, ds)
	if err != nil {
		return err
	}
	if path != "" {
		state.SetContext(ContextKeyOutputPath, path)
		if step := state.GetStep(s.ID()); step != nil {
			step.SetMetadata(MetaPath, path)
		}
	}
	recordShape(state, s.ID(), ds)
	return nil
}

func recordShape(state *OperationState, stepID string, ds *dataprocessing.Dataset) {
	step := state.GetStep(stepID)
	if step == nil {
		return
	}
	step.SetMetadata(MetaRows, ds.Len())
	step.SetMetadata(MetaColumns, ds.NumColumns())
	step.SetMessage(fmt.Sprintf("%d rows, %d columns", ds.Len(), ds.NumColumns()))
}
