package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cedricOL/LimeSurvey/pkg/cli"
	"github.com/cedricOL/LimeSurvey/pkg/config"
	"github.com/cedricOL/LimeSurvey/pkg/export/ledger"
	"github.com/cedricOL/LimeSurvey/pkg/export/retention"
	"github.com/cedricOL/LimeSurvey/pkg/telemetry/health"
	"github.com/cedricOL/LimeSurvey/pkg/telemetry/metrics"
)

var pruneFlags struct {
	maxAgeDays int
	maxFiles   int
	loop       bool
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old export files and ledger rows",
	Long: `Delete export files past the retention limits, oldest first, and drop
ledger rows past the same age cutoff.

A single sweep runs by default. With --loop the sweep runs on the
configured cron schedule until the process is stopped; when metrics are
enabled the loop also serves the Prometheus scrape endpoint.

Examples:
  # One sweep with the configured limits
  lsexport prune

  # Keep at most 200 files regardless of age
  lsexport prune --max-files 200 --max-age-days 0

  # Run scheduled sweeps until stopped
  lsexport prune --loop`,
	RunE: runPrune,
}

func init() {
	rootCmd.AddCommand(pruneCmd)

	// -1 means "not set": 0 is a meaningful value that disables a limit.
	pruneCmd.Flags().IntVar(&pruneFlags.maxAgeDays, "max-age-days", -1, "override retention age in days (0 disables age pruning)")
	pruneCmd.Flags().IntVar(&pruneFlags.maxFiles, "max-files", -1, "override the file count cap (0 = unlimited)")
	pruneCmd.Flags().BoolVar(&pruneFlags.loop, "loop", false, "run scheduled sweeps until stopped")
}

func runPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	if pruneFlags.maxAgeDays >= 0 {
		cfg.Retention.MaxAgeDays = pruneFlags.maxAgeDays
	}
	if pruneFlags.maxFiles >= 0 {
		cfg.Retention.MaxFiles = pruneFlags.maxFiles
	}
	if pruneFlags.loop && cfg.Retention.PruneSchedule == "" {
		return cli.NewConfigError("retention.prune_schedule", "a cron schedule is required for --loop")
	}

	led, err := openLedger(cfg)
	if err != nil {
		slog.Warn("job ledger unavailable, ledger rows will not be pruned", "error", err)
		led = nil
	}
	if led != nil {
		defer led.Close()
	}

	collector := newCollector(cfg)

	pruner, err := retention.NewPruner(&retention.PrunerConfig{
		Workspace: cfg.Export.Workspace,
		Retention: &cfg.Retention,
		Ledger:    led,
		Metrics:   collector,
	})
	if err != nil {
		return cli.NewCommandError("prune", err)
	}

	if pruneFlags.loop {
		return runPruneLoop(cfg, pruner, collector, led)
	}

	ctx := cli.SetupSignalHandler()
	result, err := pruner.Prune(ctx)
	if err != nil {
		return cli.NewCommandError("prune", err)
	}

	fmt.Printf("✓ Removed %d export files (%d bytes) and %d ledger rows\n",
		result.FilesRemoved, result.BytesFreed, result.JobsRemoved)
	return nil
}

// runPruneLoop keeps the retention scheduler running until the process is
// told to stop, optionally serving the metrics and health endpoints
// alongside it.
func runPruneLoop(cfg *config.Config, pruner *retention.Pruner, collector *metrics.Collector, led *ledger.Ledger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := pruner.Start(ctx); err != nil {
		return cli.NewCommandError("prune", err)
	}
	defer pruner.Stop()

	fmt.Printf("✓ Retention scheduler started (%s)\n", cfg.Retention.PruneSchedule)
	if next := pruner.NextPruning(); next != nil {
		fmt.Printf("✓ Next sweep: %s\n", next.Format(time.RFC3339))
	}

	var srv *http.Server
	if collector != nil && cfg.Telemetry.Metrics.ListenAddress != "" {
		mux := http.NewServeMux()
		mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
		commit, date := buildInfo()
		health.Mount(mux, loopChecker(cfg, pruner, led), Version, commit, date)
		srv = &http.Server{Addr: cfg.Telemetry.Metrics.ListenAddress, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics endpoint failed", "error", err)
			}
		}()
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n",
			cfg.Telemetry.Metrics.ListenAddress, cfg.Telemetry.Metrics.Path)
		fmt.Printf("✓ Health endpoints: http://%s/health /ready /version\n",
			cfg.Telemetry.Metrics.ListenAddress)
	}

	fmt.Println("\nPress Ctrl+C to stop")

	sig := <-cli.WaitForShutdown()
	fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)
	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics endpoint shutdown failed", "error", err)
		}
	}

	fmt.Println("✓ Retention scheduler stopped")
	return nil
}

// loopChecker assembles the readiness probes for the retention loop.
func loopChecker(cfg *config.Config, pruner *retention.Pruner, led *ledger.Ledger) *health.Checker {
	checker := health.New(0)
	checker.Register("scheduler", func(ctx context.Context) error {
		if pruner.NextPruning() == nil {
			return errors.New("scheduler is not running")
		}
		return nil
	})
	checker.Register("workspace", workspaceCheck(cfg.Export.Workspace))
	if led != nil {
		checker.Register("ledger", func(ctx context.Context) error {
			_, err := led.List(ctx, 1)
			return err
		})
	}
	return checker
}

// workspaceCheck probes that the export workspace is a writable directory.
// A missing workspace is healthy, the pruner treats it as empty.
func workspaceCheck(dir string) health.CheckFunc {
	return func(ctx context.Context) error {
		info, err := os.Stat(dir)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
		probe, err := os.CreateTemp(dir, ".probe-*")
		if err != nil {
			return err
		}
		probe.Close()
		return os.Remove(probe.Name())
	}
}
