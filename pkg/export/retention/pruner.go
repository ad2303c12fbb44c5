package retention

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cedricOL/LimeSurvey/pkg/config"
	"github.com/cedricOL/LimeSurvey/pkg/export/ledger"
	"github.com/cedricOL/LimeSurvey/pkg/telemetry/metrics"
)

// PrunerConfig configures the workspace pruner.
type PrunerConfig struct {
	// Workspace is the directory holding export files. Required.
	Workspace string

	// Retention sets the age and count limits and the prune schedule.
	// When nil, the package defaults apply.
	Retention *config.RetentionConfig

	// Ledger is pruned alongside the workspace. Optional.
	Ledger *ledger.Ledger

	// Metrics records sweep outcomes. Optional.
	Metrics *metrics.Collector
}

// Result describes one finished retention sweep.
type Result struct {
	FilesRemoved int   // Export files deleted from the workspace
	JobsRemoved  int   // Ledger rows deleted
	BytesFreed   int64 // Combined size of the deleted files
}

// Pruner enforces the retention policy on the export workspace. It deletes
// export files older than the configured age, trims the workspace down to
// the configured file cap, and drops ledger rows past the age cutoff.
type Pruner struct {
	workspace string
	retention *config.RetentionConfig
	ledger    *ledger.Ledger
	metrics   *metrics.Collector
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewPruner creates a workspace pruner from the given configuration.
func NewPruner(cfg *PrunerConfig) (*Pruner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("pruner config cannot be nil")
	}
	if cfg.Workspace == "" {
		return nil, fmt.Errorf("workspace is required")
	}

	retention := cfg.Retention
	if retention == nil {
		retention = &config.RetentionConfig{
			MaxAgeDays:    config.DefaultRetentionMaxAgeDays,
			MaxFiles:      config.DefaultRetentionMaxFiles,
			PruneSchedule: config.DefaultRetentionSchedule,
		}
	}

	p := &Pruner{
		workspace: cfg.Workspace,
		retention: retention,
		ledger:    cfg.Ledger,
		metrics:   cfg.Metrics,
		logger:    slog.Default().With("component", "export.retention"),
	}
	p.scheduler = NewScheduler(p)

	return p, nil
}

// Prune runs one retention sweep. Files past the age cutoff are deleted
// first, then the workspace is trimmed to the file cap oldest first, then
// ledger rows past the same cutoff are dropped. The sweep is recorded in
// metrics whether it succeeds or fails.
//
// When both limits are zero the sweep is a no-op.
func (p *Pruner) Prune(ctx context.Context) (*Result, error) {
	if p.retention.MaxAgeDays <= 0 && p.retention.MaxFiles <= 0 {
		p.logger.Debug("retention limits not configured, skipping sweep")
		return &Result{}, nil
	}

	p.logger.Debug("starting retention sweep",
		"workspace", p.workspace,
		"max_age_days", p.retention.MaxAgeDays,
		"max_files", p.retention.MaxFiles)

	result, err := p.sweep(ctx)

	status := "completed"
	if err != nil {
		status = "failed"
	}
	if p.metrics != nil {
		p.metrics.RecordPrune(status, result.FilesRemoved, result.JobsRemoved)
	}

	if err != nil {
		p.logger.Error("retention sweep failed",
			"error", err,
			"files_removed", result.FilesRemoved,
			"jobs_removed", result.JobsRemoved)
		return result, err
	}

	if result.FilesRemoved > 0 || result.JobsRemoved > 0 {
		p.logger.Info("retention sweep completed",
			"files_removed", result.FilesRemoved,
			"jobs_removed", result.JobsRemoved,
			"bytes_freed", result.BytesFreed)
	} else {
		p.logger.Debug("retention sweep completed, nothing to remove")
	}

	return result, nil
}

// sweep does the actual work of one sweep and always returns a non-nil
// result, so callers can see partial progress when a phase fails.
func (p *Pruner) sweep(ctx context.Context) (*Result, error) {
	result := &Result{}

	var cutoff time.Time
	if p.retention.MaxAgeDays > 0 {
		cutoff = time.Now().AddDate(0, 0, -p.retention.MaxAgeDays)
	}

	files, err := p.listExportFiles()
	if err != nil {
		return result, fmt.Errorf("failed to scan export workspace: %w", err)
	}

	// Age first, so the file cap below only counts files still worth
	// keeping.
	if !cutoff.IsZero() {
		kept := files[:0]
		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			if f.modTime.Before(cutoff) {
				if err := p.removeFile(f, result); err != nil {
					return result, err
				}
				continue
			}
			kept = append(kept, f)
		}
		files = kept
	}

	// Trim down to the file cap, oldest first.
	if p.retention.MaxFiles > 0 && len(files) > p.retention.MaxFiles {
		sort.Slice(files, func(i, j int) bool {
			return files[i].modTime.Before(files[j].modTime)
		})
		for _, f := range files[:len(files)-p.retention.MaxFiles] {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			if err := p.removeFile(f, result); err != nil {
				return result, err
			}
		}
	}

	// Ledger rows age out on the same cutoff as the files they point to.
	if !cutoff.IsZero() && p.ledger != nil {
		removed, err := p.ledger.PruneBefore(ctx, cutoff)
		if err != nil {
			return result, fmt.Errorf("failed to prune job ledger: %w", err)
		}
		result.JobsRemoved = removed
	}

	return result, nil
}

// exportFile is one workspace file eligible for pruning.
type exportFile struct {
	path    string
	size    int64
	modTime time.Time
}

// listExportFiles scans the workspace for files produced by the export
// service. Anything else in the directory is left alone. A missing
// workspace yields an empty list, since there is nothing to prune before
// the first file export.
func (p *Pruner) listExportFiles() ([]exportFile, error) {
	entries, err := os.ReadDir(p.workspace)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []exportFile
	for _, entry := range entries {
		if entry.IsDir() || !isExportFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Deleted between ReadDir and Info
			continue
		}
		files = append(files, exportFile{
			path:    filepath.Join(p.workspace, entry.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}

	return files, nil
}

func (p *Pruner) removeFile(f exportFile, result *Result) error {
	if err := os.Remove(f.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to remove export file %s: %w", f.path, err)
	}

	result.FilesRemoved++
	result.BytesFreed += f.size
	p.logger.Debug("removed export file", "path", f.path, "size", f.size)

	return nil
}

// exportExtensions are the file extensions the export service produces.
var exportExtensions = map[string]bool{
	".csv":  true,
	".doc":  true,
	".xlsx": true,
	".pdf":  true,
}

// isExportFile reports whether name matches the naming scheme the export
// service uses for workspace files (survey_<id>_<job>.<ext>). The sweep
// only ever deletes files it recognizes.
func isExportFile(name string) bool {
	if !strings.HasPrefix(name, "survey_") {
		return false
	}
	return exportExtensions[strings.ToLower(filepath.Ext(name))]
}

// Start begins scheduled sweeps per the configured cron expression.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop halts scheduled sweeps and waits for a running sweep to finish.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the next scheduled sweep time, or nil when no sweep
// is scheduled.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
