package config

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldError pins a validation failure to one configuration field, named by
// its dotted path, such as "storage.backend".
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError carries every FieldError found in one Validate pass, so a
// user can fix the whole file in one edit instead of replaying failures.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "configuration validation failed"
	case 1:
		return "configuration validation failed: " + e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// fieldErrors collects failures as the section validators walk the config.
type fieldErrors []FieldError

func (fe *fieldErrors) add(field, format string, args ...any) {
	*fe = append(*fe, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks every section of the configuration and reports all
// failures together as a ValidationError. A nil return means the
// configuration is usable as-is.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateStorage(&cfg.Storage)...)
	errs = append(errs, validateExport(&cfg.Export)...)
	errs = append(errs, validateLocale(&cfg.Locale)...)
	errs = append(errs, validateLedger(&cfg.Ledger)...)
	errs = append(errs, validateRetention(&cfg.Retention)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateStorage(cfg *StorageConfig) []FieldError {
	var errs fieldErrors

	switch cfg.Backend {
	case "sqlite", "memory":
	case "":
		errs.add("storage.backend", "backend is required")
	default:
		errs.add("storage.backend", "invalid backend %q: must be 'sqlite' or 'memory'", cfg.Backend)
	}

	if cfg.Backend == "sqlite" {
		if cfg.SQLite.Path == "" {
			errs.add("storage.sqlite.path", "SQLite path is required when backend is 'sqlite'")
		}
		if cfg.SQLite.MaxOpenConns < 0 {
			errs.add("storage.sqlite.max_open_conns", "max open connections must be non-negative")
		}
		if cfg.SQLite.MaxIdleConns < 0 {
			errs.add("storage.sqlite.max_idle_conns", "max idle connections must be non-negative")
		}
		if cfg.SQLite.MaxOpenConns > 0 && cfg.SQLite.MaxIdleConns > cfg.SQLite.MaxOpenConns {
			errs.add("storage.sqlite.max_idle_conns", "max idle connections cannot exceed max open connections")
		}
		if cfg.SQLite.BusyTimeout < 0 {
			errs.add("storage.sqlite.busy_timeout", "busy timeout must be positive")
		}
	}

	return errs
}

func validateExport(cfg *ExportConfig) []FieldError {
	var errs fieldErrors

	if cfg.Workspace == "" {
		errs.add("export.workspace", "workspace directory is required")
	}

	switch {
	case cfg.Delimiter == "":
	case len([]rune(cfg.Delimiter)) != 1:
		errs.add("export.delimiter", "delimiter %q must be a single character", cfg.Delimiter)
	case strings.ContainsAny(cfg.Delimiter, "\"\r\n"):
		errs.add("export.delimiter", "delimiter must not be a quote or line break")
	}

	switch cfg.DefaultFormat {
	case "", "csv", "doc", "xls", "pdf":
	default:
		errs.add("export.default_format", "invalid format %q: must be 'csv', 'doc', 'xls', or 'pdf'", cfg.DefaultFormat)
	}

	return errs
}

func validateLocale(cfg *LocaleConfig) []FieldError {
	var errs fieldErrors

	if cfg.Watch && cfg.Dir == "" {
		errs.add("locale.watch", "bundle watching requires locale.dir to be set")
	}
	if cfg.DebounceInterval < 0 {
		errs.add("locale.debounce_interval", "debounce interval must be positive")
	}

	return errs
}

func validateLedger(cfg *LedgerConfig) []FieldError {
	var errs fieldErrors

	if !cfg.Enabled {
		return errs
	}
	if cfg.Path == "" {
		errs.add("ledger.path", "ledger path is required when the ledger is enabled")
	}
	if cfg.BusyTimeout < 0 {
		errs.add("ledger.busy_timeout", "busy timeout must be positive")
	}

	return errs
}

// maxRetentionAgeDays caps retention.max_age_days at ten years.
const maxRetentionAgeDays = 3650

// The cron expression in retention.prune_schedule is checked by the
// retention scheduler when it starts, not here.
func validateRetention(cfg *RetentionConfig) []FieldError {
	var errs fieldErrors

	if cfg.MaxAgeDays < 0 {
		errs.add("retention.max_age_days", "max age days must be non-negative")
	}
	if cfg.MaxAgeDays > maxRetentionAgeDays {
		errs.add("retention.max_age_days", "max age days exceeds reasonable limit (3650 days / 10 years)")
	}
	if cfg.MaxFiles < 0 {
		errs.add("retention.max_files", "max files must be non-negative")
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs fieldErrors

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	case "":
		errs.add("telemetry.logging.level", "logging level is required")
	default:
		errs.add("telemetry.logging.level", "invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level)
	}

	switch cfg.Logging.Format {
	case "json", "text":
	case "":
		errs.add("telemetry.logging.format", "logging format is required")
	default:
		errs.add("telemetry.logging.format", "invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format)
	}

	for i, pattern := range cfg.Logging.RedactPatterns {
		field := fmt.Sprintf("telemetry.logging.redact_patterns[%d].pattern", i)
		if pattern.Pattern == "" {
			errs.add(field, "pattern is required")
			continue
		}
		if _, err := regexp.Compile(pattern.Pattern); err != nil {
			errs.add(field, "invalid regular expression: %v", err)
		}
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.ListenAddress == "" {
			errs.add("telemetry.metrics.listen_address", "listen address is required when metrics are enabled")
		}
		switch {
		case cfg.Metrics.Path == "":
			errs.add("telemetry.metrics.path", "metrics path is required when metrics are enabled")
		case !strings.HasPrefix(cfg.Metrics.Path, "/"):
			errs.add("telemetry.metrics.path", "metrics path must start with /")
		}
	}
	for i, bucket := range cfg.Metrics.DurationBuckets {
		if bucket <= 0 {
			errs.add(fmt.Sprintf("telemetry.metrics.duration_buckets[%d]", i), "histogram buckets must be positive")
		}
	}

	return errs
}
