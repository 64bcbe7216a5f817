package config

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "EDA"

// ConfigFileEnv names the variable holding an explicit YAML config path.
const ConfigFileEnv = "EDA_CONFIG"

// Default file and directory names.
const (
	DefaultConfigFile    = "config/eda.yaml"
	DefaultDataDir       = "data"
	DefaultRawDir        = "data/raw"
	DefaultModelsDir     = "models"
	DefaultFiguresDir    = "reports/figures"
	DefaultLogsDir       = "logs"
	DefaultCleanFilename = "clean_spotify.csv"
	DefaultModelFilename = "best_model.json"
)

// Modeling defaults.
const (
	DefaultTestSize    = 0.2
	DefaultRandomState = 42
	DefaultMaxIter     = 1000
	DefaultC           = 1.0
)

// DefaultBins is the histogram bin count used when none is given.
const DefaultBins = 30
