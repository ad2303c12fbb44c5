package config

import "time"

// ConfigBuilder assembles Config values for tests through a fluent chain,
// starting from the defaults and overriding only what a test cares about.
type ConfigBuilder struct {
	cfg Config
}

// NewTestConfig starts a builder on the default configuration, which is
// already valid as-is.
func NewTestConfig() *ConfigBuilder {
	cfg := Config{}
	ApplyDefaults(&cfg)
	return &ConfigBuilder{cfg: cfg}
}

// Build hands out the assembled Config.
func (b *ConfigBuilder) Build() *Config {
	return &b.cfg
}

// WithStorageBackend sets the survey storage backend.
func (b *ConfigBuilder) WithStorageBackend(backend string) *ConfigBuilder {
	b.cfg.Storage.Backend = backend
	return b
}

// WithSQLitePath sets the survey database path and selects the sqlite backend.
func (b *ConfigBuilder) WithSQLitePath(path string) *ConfigBuilder {
	b.cfg.Storage.Backend = "sqlite"
	b.cfg.Storage.SQLite.Path = path
	return b
}

// WithWorkspace sets the export workspace directory.
func (b *ConfigBuilder) WithWorkspace(dir string) *ConfigBuilder {
	b.cfg.Export.Workspace = dir
	return b
}

// WithDelimiter sets the CSV delimiter.
func (b *ConfigBuilder) WithDelimiter(delimiter string) *ConfigBuilder {
	b.cfg.Export.Delimiter = delimiter
	return b
}

// WithDefaultFormat sets the default output format.
func (b *ConfigBuilder) WithDefaultFormat(format string) *ConfigBuilder {
	b.cfg.Export.DefaultFormat = format
	return b
}

// WithLocaleDir sets the translation bundle directory.
func (b *ConfigBuilder) WithLocaleDir(dir string) *ConfigBuilder {
	b.cfg.Locale.Dir = dir
	return b
}

// WithLocaleWatch enables bundle watching with the given debounce interval.
func (b *ConfigBuilder) WithLocaleWatch(debounce time.Duration) *ConfigBuilder {
	b.cfg.Locale.Watch = true
	b.cfg.Locale.DebounceInterval = debounce
	return b
}

// WithLedgerPath sets the job ledger database path.
func (b *ConfigBuilder) WithLedgerPath(path string) *ConfigBuilder {
	b.cfg.Ledger.Enabled = true
	b.cfg.Ledger.Path = path
	return b
}

// WithLedgerDisabled turns off job recording.
func (b *ConfigBuilder) WithLedgerDisabled() *ConfigBuilder {
	b.cfg.Ledger.Enabled = false
	return b
}

// WithRetention sets the workspace retention limits.
func (b *ConfigBuilder) WithRetention(maxAgeDays, maxFiles int) *ConfigBuilder {
	b.cfg.Retention.MaxAgeDays = maxAgeDays
	b.cfg.Retention.MaxFiles = maxFiles
	return b
}

// WithPruneSchedule sets the retention cron schedule.
func (b *ConfigBuilder) WithPruneSchedule(schedule string) *ConfigBuilder {
	b.cfg.Retention.PruneSchedule = schedule
	return b
}

// WithLoggingLevel overrides the minimum log level.
func (b *ConfigBuilder) WithLoggingLevel(level string) *ConfigBuilder {
	b.cfg.Telemetry.Logging.Level = level
	return b
}

// WithLoggingFormat overrides the log encoding.
func (b *ConfigBuilder) WithLoggingFormat(format string) *ConfigBuilder {
	b.cfg.Telemetry.Logging.Format = format
	return b
}

// WithMetricsEnabled toggles metric collection.
func (b *ConfigBuilder) WithMetricsEnabled(enabled bool) *ConfigBuilder {
	b.cfg.Telemetry.Metrics.Enabled = enabled
	return b
}

// MinimalConfig is the smallest configuration that passes validation.
// Every field has a working default, so this is just the default set.
func MinimalConfig() *Config {
	return NewTestConfig().Build()
}
