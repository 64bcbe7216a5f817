// Package config provides centralized configuration for the Spotify EDA toolkit.
// It loads configuration from multiple sources, validates it, and resolves the
// on-disk layout used by the cleaner, trainer, figure renderer and web service.
//
// # Configuration Sources
//
// Configuration is assembled in the following order, later sources winning:
//
//	1. Default values (Default)
//	2. A YAML file (EDA_CONFIG, or config/eda.yaml when present)
//	3. Environment variables (highest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern EDA_<SECTION>_<FIELD>:
//
//	EDA_PATHS_DATA_DIR=data
//	EDA_MODELING_TEST_SIZE=0.25
//	EDA_FIGURES_BINS=50
//	EDA_LOGGING_LEVEL=debug
//	EDA_SERVER_PORT=9090
//
// # Path Management
//
// Paths resolves every directory against a single base directory (the working
// directory unless EDA_PATHS_BASE_DIR is set):
//
//	paths, err := cfg.Paths.Resolve()
//	out := paths.CleanCSVPath("")   // <base>/data/clean_spotify.csv
package config
