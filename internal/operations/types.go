package operations

// Step identifiers
const (
	StepIDLoad      = "load"
	StepIDNormalize = "normalize"
	StepIDClean     = "clean"
	StepIDSave      = "save"
)

// Step names
const (
	StepNameLoad      = "Load Dataset"
	StepNameNormalize = "Normalize Columns"
	StepNameClean     = "Basic Clean"
	StepNameSave      = "Save Dataset"
)

// Context keys for operation state
const (
	ContextKeyDataset    = "dataset"
	ContextKeyCleanStats = "clean_stats"
	ContextKeyOutputPath = "output_path"
)

// Step metadata keys
const (
	MetaRows    = "rows"
	MetaColumns = "columns"
	MetaPath    = "path"
)
