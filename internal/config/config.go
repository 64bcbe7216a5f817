package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "spotifyeda/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Cleaning  CleaningConfig  `yaml:"cleaning" envconfig:"CLEANING"`
	Modeling  ModelingConfig  `yaml:"modeling" envconfig:"MODELING"`
	Figures   FiguresConfig   `yaml:"figures" envconfig:"FIGURES"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// PathsConfig contains file system layout configuration. Relative entries are
// resolved against BaseDir.
type PathsConfig struct {
	BaseDir    string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	RawDir     string `yaml:"raw_dir" envconfig:"RAW_DIR" validate:"required"`
	ModelsDir  string `yaml:"models_dir" envconfig:"MODELS_DIR" validate:"required"`
	FiguresDir string `yaml:"figures_dir" envconfig:"FIGURES_DIR" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// CleaningConfig controls the cleaning pipeline outputs
type CleaningConfig struct {
	CleanFilename string `yaml:"clean_filename" envconfig:"CLEAN_FILENAME" validate:"required"`
	Workers       int    `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=64"`
	BOMPrefix     bool   `yaml:"bom_prefix" envconfig:"BOM_PREFIX"`
}

// ModelingConfig contains the baseline classifier settings
type ModelingConfig struct {
	TestSize      float64 `yaml:"test_size" envconfig:"TEST_SIZE" validate:"gt=0,lt=1"`
	RandomState   int64   `yaml:"random_state" envconfig:"RANDOM_STATE"`
	MaxIter       int     `yaml:"max_iter" envconfig:"MAX_ITER" validate:"min=1"`
	C             float64 `yaml:"c" envconfig:"C" validate:"gt=0"`
	ModelFilename string  `yaml:"model_filename" envconfig:"MODEL_FILENAME" validate:"required"`
}

// FiguresConfig contains plot rendering settings
type FiguresConfig struct {
	Bins   int     `yaml:"bins" envconfig:"BINS" validate:"min=1"`
	Width  float64 `yaml:"width" envconfig:"WIDTH" validate:"gt=0"`
	Height float64 `yaml:"height" envconfig:"HEIGHT" validate:"gt=0"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	MaxUploadBytes  int64           `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" validate:"min=1"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// TelemetryConfig toggles tracing and metrics
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	TracingEnabled bool   `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
}

// Load loads configuration from defaults, the config file and the environment.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is like Load but reads the YAML file at filePath. An empty path
// skips the file layer.
func LoadFrom(filePath string) (*Config, error) {
	cfg := Default()

	if filePath != "" {
		if err := loadFromFile(filePath, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("path", filePath)
		}
	}

	// Environment wins over the file; fields without a variable are left alone.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("config validation failed", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging file_path is required for output %q", c.Logging.Output)
	}
	return nil
}

// getConfigFilePath returns the path to the config file, or "" when none exists
func getConfigFilePath() string {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return path
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			RawDir:     DefaultRawDir,
			ModelsDir:  DefaultModelsDir,
			FiguresDir: DefaultFiguresDir,
			LogsDir:    DefaultLogsDir,
		},
		Cleaning: CleaningConfig{
			CleanFilename: DefaultCleanFilename,
			Workers:       4,
		},
		Modeling: ModelingConfig{
			TestSize:      DefaultTestSize,
			RandomState:   DefaultRandomState,
			MaxIter:       DefaultMaxIter,
			C:             DefaultC,
			ModelFilename: DefaultModelFilename,
		},
		Figures: FiguresConfig{
			Bins:   DefaultBins,
			Width:  6,
			Height: 4,
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxUploadBytes:  64 << 20, // 64MB
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/eda.log",
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "spotifyeda",
			MetricsEnabled: true,
		},
	}
}
