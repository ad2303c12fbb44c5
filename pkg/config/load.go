package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults and
// validates the result. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file, then
// applies environment variable overrides named LSEXPORT_SECTION_FIELD
// (for example LSEXPORT_EXPORT_WORKSPACE). The environment always wins
// over the file, and the merged result is validated again.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides copies set LSEXPORT_* variables over the loaded
// configuration. Unparseable numeric, boolean and duration values are
// ignored rather than failing the load.
func applyEnvOverrides(cfg *Config) {
	envString("LSEXPORT_STORAGE_BACKEND", &cfg.Storage.Backend)
	envString("LSEXPORT_STORAGE_SQLITE_PATH", &cfg.Storage.SQLite.Path)
	envInt("LSEXPORT_STORAGE_SQLITE_MAX_OPEN_CONNS", &cfg.Storage.SQLite.MaxOpenConns)
	envInt("LSEXPORT_STORAGE_SQLITE_MAX_IDLE_CONNS", &cfg.Storage.SQLite.MaxIdleConns)
	envBool("LSEXPORT_STORAGE_SQLITE_WAL_MODE", &cfg.Storage.SQLite.WALMode)
	envDuration("LSEXPORT_STORAGE_SQLITE_BUSY_TIMEOUT", &cfg.Storage.SQLite.BusyTimeout)

	envString("LSEXPORT_EXPORT_WORKSPACE", &cfg.Export.Workspace)
	envString("LSEXPORT_EXPORT_DELIMITER", &cfg.Export.Delimiter)
	envString("LSEXPORT_EXPORT_DEFAULT_FORMAT", &cfg.Export.DefaultFormat)

	envString("LSEXPORT_LOCALE_DIR", &cfg.Locale.Dir)
	envBool("LSEXPORT_LOCALE_WATCH", &cfg.Locale.Watch)
	envDuration("LSEXPORT_LOCALE_DEBOUNCE_INTERVAL", &cfg.Locale.DebounceInterval)

	envBool("LSEXPORT_LEDGER_ENABLED", &cfg.Ledger.Enabled)
	envString("LSEXPORT_LEDGER_PATH", &cfg.Ledger.Path)
	envDuration("LSEXPORT_LEDGER_BUSY_TIMEOUT", &cfg.Ledger.BusyTimeout)

	envInt("LSEXPORT_RETENTION_MAX_AGE_DAYS", &cfg.Retention.MaxAgeDays)
	envInt("LSEXPORT_RETENTION_MAX_FILES", &cfg.Retention.MaxFiles)
	envString("LSEXPORT_RETENTION_PRUNE_SCHEDULE", &cfg.Retention.PruneSchedule)

	envString("LSEXPORT_TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("LSEXPORT_TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("LSEXPORT_TELEMETRY_LOGGING_ADD_SOURCE", &cfg.Telemetry.Logging.AddSource)
	envBool("LSEXPORT_TELEMETRY_LOGGING_REDACT_PII", &cfg.Telemetry.Logging.RedactPII)
	envBool("LSEXPORT_TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString("LSEXPORT_TELEMETRY_METRICS_LISTEN_ADDRESS", &cfg.Telemetry.Metrics.ListenAddress)
	envString("LSEXPORT_TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
}

func envString(name string, dst *string) {
	if val := os.Getenv(name); val != "" {
		*dst = val
	}
}

func envInt(name string, dst *int) {
	if val := os.Getenv(name); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envBool(name string, dst *bool) {
	if val := os.Getenv(name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envDuration(name string, dst *time.Duration) {
	if val := os.Getenv(name); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
