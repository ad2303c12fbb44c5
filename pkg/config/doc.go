// Package config loads and validates the export engine's configuration.
//
// Configuration lives in one YAML file mapped onto the Config struct. Every
// field has a working default, so an empty section is never an error by
// itself; what the file does set is validated as a whole before any command
// runs with it.
//
// # Loading
//
//	cfg, err := config.LoadConfig("config.yaml")
//
// reads the file, applies defaults to unset fields, and validates the
// result. LoadConfigWithEnvOverrides does the same and then lets
// LSEXPORT_SECTION_FIELD environment variables override single fields:
//
//   - LSEXPORT_STORAGE_SQLITE_PATH overrides storage.sqlite.path
//   - LSEXPORT_EXPORT_WORKSPACE overrides export.workspace
//   - LSEXPORT_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Precedence, lowest to highest: built-in defaults, file values, environment
// overrides. Validation always runs last. Hosts that run without a file use
// DefaultConfig, which passes validation as-is.
//
// # Process-wide access
//
// Commands install the loaded configuration once and read it from anywhere:
//
//	if err := config.Initialize("config.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//	cfg := config.GetConfig()
//
// Initialize may be called again to replace the installed configuration; a
// failed load leaves the previous one in effect. The installed pointer is
// swapped atomically, so readers never observe a partially applied update.
// Library consumers should skip the singleton and pass *Config explicitly.
//
// # Validation errors
//
// Validate collects every failure into one ValidationError instead of
// stopping at the first:
//
//	configuration validation failed with 2 errors:
//	  - storage.backend: invalid backend "postgres": must be 'sqlite' or 'memory'
//	  - export.delimiter: delimiter ";;" must be a single character
//
// Checks cover required fields (the sqlite path when that backend is
// selected), ranges (retention days non-negative), formats (single-character
// CSV delimiter), and cross-field rules (bundle watching needs a bundle
// directory).
//
// # Sample file
//
//	storage:
//	  backend: "sqlite"
//	  sqlite:
//	    path: "data/surveys.db"
//
//	export:
//	  workspace: "data/exports"
//	  delimiter: ","
//
//	locale:
//	  dir: "locale"
//
//	retention:
//	  max_age_days: 30
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
