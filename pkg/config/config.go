package config

import "time"

// Config is the root configuration for the survey export engine, covering
// survey storage, the export pipeline, translation bundles, the job ledger,
// workspace retention, and telemetry.
type Config struct {
	// Storage selects and tunes the survey store the exporter reads
	// structure and responses from.
	Storage StorageConfig `yaml:"storage"`

	// Export configures the export pipeline, including the workspace
	// directory and delimited-text settings.
	Export ExportConfig `yaml:"export"`

	// Locale configures the translation bundles used to localize headings
	// and rendered answer values.
	Locale LocaleConfig `yaml:"locale"`

	// Ledger configures the export job ledger.
	Ledger LedgerConfig `yaml:"ledger"`

	// Retention bounds how long export files and ledger rows are kept.
	Retention RetentionConfig `yaml:"retention"`

	// Telemetry groups the logging and metrics settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// StorageConfig selects the survey store backend.
type StorageConfig struct {
	// Backend names the storage backend for survey data.
	// Options: "sqlite", "memory"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite holds the SQLite tuning knobs.
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// SQLiteConfig tunes the SQLite survey database.
type SQLiteConfig struct {
	// Path locates the survey database file.
	// Default: "data/surveys.db"
	Path string `yaml:"path"`

	// MaxOpenConns caps concurrently open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns caps the idle connection pool.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode opens the database in write-ahead logging mode.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout bounds the wait on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// ExportConfig configures the export pipeline.
type ExportConfig struct {
	// Workspace is the directory where export files are written.
	// Default: "data/exports"
	Workspace string `yaml:"workspace"`

	// Delimiter is the field separator used for CSV exports.
	// Must be a single character and must not be a quote or line break.
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// DefaultFormat is the output format used when a job does not request one.
	// Options: "csv", "doc", "xls", "pdf"
	// Default: "csv"
	DefaultFormat string `yaml:"default_format"`
}

// LocaleConfig configures the translation bundles.
type LocaleConfig struct {
	// Dir is the directory holding per-language YAML bundles (e.g. "de.yaml").
	// When empty, only the built-in English strings are available.
	Dir string `yaml:"dir"`

	// Watch enables automatic bundle cache invalidation when files in Dir
	// change. Only meaningful for long-running commands.
	// Default: false
	Watch bool `yaml:"watch"`

	// DebounceInterval is how long to sit on a file change before the
	// bundle cache is invalidated.
	// Default: 100ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// LedgerConfig configures the export job ledger.
type LedgerConfig struct {
	// Enabled controls whether finished export jobs are recorded.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path locates the ledger SQLite database file.
	// Default: "data/export-jobs.db"
	Path string `yaml:"path"`

	// BusyTimeout bounds the wait on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig bounds what the workspace pruner keeps.
type RetentionConfig struct {
	// MaxAgeDays is the number of days to keep export files and ledger rows.
	// Anything older is eligible for deletion.
	// Zero keeps everything regardless of age.
	// Default: 30
	MaxAgeDays int `yaml:"max_age_days"`

	// MaxFiles caps how many export files stay in the workspace. When
	// exceeded, the oldest files go first.
	// Zero means unlimited.
	// Default: 0
	MaxFiles int `yaml:"max_files"`

	// PruneSchedule is a cron expression for scheduled pruning. Only
	// long-running prune loops read it; the expression is validated when
	// the scheduler starts.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig groups the logging and metrics settings.
type TelemetryConfig struct {
	// Logging configures the structured logger.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the Prometheus collectors.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// Level is the lowest severity that gets logged.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format selects the log encoding.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource stamps entries with the emitting file and line.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactPII enables automatic respondent PII redaction in logs,
	// covering email addresses, access tokens, and IP addresses.
	// Default: true
	RedactPII bool `yaml:"redact_pii"`

	// RedactPatterns adds deployment-specific redaction rules on top of
	// the built-in ones.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern is one configured redaction rule.
type RedactPattern struct {
	// Name labels the rule in validation errors.
	Name string `yaml:"name"`

	// Pattern is the regular expression to redact.
	Pattern string `yaml:"pattern"`

	// Replacement substitutes for each match.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig controls the Prometheus endpoint and collectors.
type MetricsConfig struct {
	// Enabled turns metric collection on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address for the Prometheus scrape endpoint.
	// Only long-running commands serve one.
	// Default: "127.0.0.1:9102"
	ListenAddress string `yaml:"listen_address"`

	// Path is where the scrape handler is mounted.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "lsexport"
	Namespace string `yaml:"namespace"`

	// Subsystem slots between the namespace and the metric name.
	// Default: "" (none)
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for export run duration
	// in seconds.
	// Default: [0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}
