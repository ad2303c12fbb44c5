package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cedricOL/LimeSurvey/pkg/cli"
	"github.com/cedricOL/LimeSurvey/pkg/config"
	"github.com/cedricOL/LimeSurvey/pkg/export/ledger"
	"github.com/cedricOL/LimeSurvey/pkg/survey"
	"github.com/cedricOL/LimeSurvey/pkg/survey/storage"
	"github.com/cedricOL/LimeSurvey/pkg/telemetry/logging"
	"github.com/cedricOL/LimeSurvey/pkg/telemetry/metrics"
)

var (
	// Persistent flags, shared by every subcommand.
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lsexport",
	Short: "Survey response export engine",
	Long: `Lsexport exports survey responses to delimited and document formats.

Responses stream from the survey store through a format writer in
fixed-size batches, so exports of any size run in flat memory. One
control template drives all four output formats:
  - CSV with a configurable delimiter
  - Word documents (question/answer layout)
  - Excel workbooks
  - Paginated PDF tables

Headings and answer values are localized through translation bundles,
finished runs are recorded in a job ledger, and a retention sweep keeps
the export workspace bounded.

For more information, visit: https://github.com/cedricOL/LimeSurvey`,
	Version: Version,
}

// Execute runs the root command. Usage mistakes exit with status 2, runtime
// failures with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var cfgErr *cli.ConfigError
		if errors.As(err, &cfgErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig resolves the configuration for one command run. A configuration
// already installed through the singleton is reused unless --config was given
// explicitly; the default config path may be absent, in which case built-in
// defaults apply. A path given explicitly with --config must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	explicit := cmd != nil && cmd.Flags().Changed("config")
	if !explicit {
		if cfg := config.GetConfig(); cfg != nil {
			return cfg, nil
		}
		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			cfg := config.DefaultConfig()
			config.SetConfig(cfg)
			return cfg, nil
		}
	}
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	return config.GetConfig(), nil
}

// setupLogging installs the process-wide logger. Components capture
// slog.Default at construction time, so this must run before any of them is
// built.
func setupLogging(cfg *config.Config) error {
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	logger, err := logging.NewFromConfig(&cfg.Telemetry.Logging)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Slog())
	return nil
}

// openStorage builds the survey store named by the configuration.
func openStorage(cfg *config.Config) (survey.Storage, error) {
	switch cfg.Storage.Backend {
	case "sqlite", "":
		store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
			Path:         cfg.Storage.SQLite.Path,
			MaxOpenConns: cfg.Storage.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.Storage.SQLite.MaxIdleConns,
			WALMode:      cfg.Storage.SQLite.WALMode,
			BusyTimeout:  cfg.Storage.SQLite.BusyTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite storage: %w", err)
		}
		return store, nil
	case "memory":
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s (supported: sqlite, memory)", cfg.Storage.Backend)
	}
}

// openLedger opens the job ledger when it is enabled. A disabled ledger
// returns nil without error; commands treat a nil ledger as "do not record".
func openLedger(cfg *config.Config) (*ledger.Ledger, error) {
	if !cfg.Ledger.Enabled {
		return nil, nil
	}
	led, err := ledger.NewLedger(&ledger.LedgerConfig{
		Path:        cfg.Ledger.Path,
		BusyTimeout: cfg.Ledger.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open job ledger: %w", err)
	}
	return led, nil
}

// newCollector builds the metrics collector, or nil when metrics are
// disabled.
func newCollector(cfg *config.Config) *metrics.Collector {
	if !cfg.Telemetry.Metrics.Enabled {
		return nil
	}
	return metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
}
