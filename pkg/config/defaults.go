package config

import "time"

// Built-in defaults, shared by ApplyDefaults and the validators.
const (
	// Storage
	DefaultStorageBackend     = "sqlite"
	DefaultSQLitePath         = "data/surveys.db"
	DefaultSQLiteMaxOpenConns = 10
	DefaultSQLiteMaxIdleConns = 5
	DefaultSQLiteWALMode      = true
	DefaultSQLiteBusyTimeout  = 5 * time.Second

	// Export
	DefaultExportWorkspace = "data/exports"
	DefaultExportDelimiter = ","
	DefaultExportFormat    = "csv"

	// Locale
	DefaultLocaleWatch    = false
	DefaultLocaleDebounce = 100 * time.Millisecond

	// Ledger
	DefaultLedgerEnabled     = true
	DefaultLedgerPath        = "data/export-jobs.db"
	DefaultLedgerBusyTimeout = 5 * time.Second

	// Retention
	DefaultRetentionMaxAgeDays = 30
	DefaultRetentionMaxFiles   = 0
	DefaultRetentionSchedule   = "0 3 * * *"

	// Telemetry
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "json"
	DefaultLoggingRedactPII     = true
	DefaultMetricsEnabled       = false
	DefaultMetricsListenAddress = "127.0.0.1:9102"
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "lsexport"
)

// DefaultMetricsDurationBuckets returns the default histogram buckets for
// export run duration in seconds. Runs range from near-instant for tiny
// surveys to minutes for large PDF exports.
func DefaultMetricsDurationBuckets() []float64 {
	return []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0}
}

// DefaultConfig returns a Config populated entirely with default values.
// The result passes validation and is what commands run with when no
// configuration file exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-valued field of cfg with its default.
// Calling it twice changes nothing.
func ApplyDefaults(cfg *Config) {
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Storage.SQLite.MaxOpenConns == 0 {
		cfg.Storage.SQLite.MaxOpenConns = DefaultSQLiteMaxOpenConns
	}
	if cfg.Storage.SQLite.MaxIdleConns == 0 {
		cfg.Storage.SQLite.MaxIdleConns = DefaultSQLiteMaxIdleConns
	}
	if !cfg.Storage.SQLite.WALMode {
		cfg.Storage.SQLite.WALMode = DefaultSQLiteWALMode
	}
	if cfg.Storage.SQLite.BusyTimeout == 0 {
		cfg.Storage.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}

	if cfg.Export.Workspace == "" {
		cfg.Export.Workspace = DefaultExportWorkspace
	}
	if cfg.Export.Delimiter == "" {
		cfg.Export.Delimiter = DefaultExportDelimiter
	}
	if cfg.Export.DefaultFormat == "" {
		cfg.Export.DefaultFormat = DefaultExportFormat
	}

	// Locale.Dir stays empty so the built-in English strings are used
	// unless a bundle directory is configured.
	if cfg.Locale.DebounceInterval == 0 {
		cfg.Locale.DebounceInterval = DefaultLocaleDebounce
	}

	// Ledger.Enabled defaults to true; an explicit false can only arrive
	// through the environment override, which runs after this.
	if !cfg.Ledger.Enabled {
		cfg.Ledger.Enabled = DefaultLedgerEnabled
	}
	if cfg.Ledger.Path == "" {
		cfg.Ledger.Path = DefaultLedgerPath
	}
	if cfg.Ledger.BusyTimeout == 0 {
		cfg.Ledger.BusyTimeout = DefaultLedgerBusyTimeout
	}

	if cfg.Retention.MaxAgeDays == 0 {
		cfg.Retention.MaxAgeDays = DefaultRetentionMaxAgeDays
	}
	if cfg.Retention.PruneSchedule == "" {
		cfg.Retention.PruneSchedule = DefaultRetentionSchedule
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if !cfg.Telemetry.Logging.RedactPII {
		cfg.Telemetry.Logging.RedactPII = DefaultLoggingRedactPII
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = DefaultMetricsDurationBuckets()
	}
}
