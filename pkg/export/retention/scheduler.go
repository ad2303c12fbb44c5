package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs retention sweeps on a cron schedule. Long-running prune
// loops use it to get periodic workspace cleanup without wiring cron
// themselves.
type Scheduler struct {
	pruner  *Pruner
	cron    *cron.Cron
	entryID cron.EntryID
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewScheduler creates a scheduler driving the given pruner.
func NewScheduler(pruner *Pruner) *Scheduler {
	return &Scheduler{
		pruner: pruner,
		cron:   cron.New(),
		logger: slog.Default().With("component", "export.scheduler"),
	}
}

// Start begins scheduled sweeps based on the cron expression in the
// retention config, e.g. "0 3 * * *" for a daily sweep at 3 AM.
//
// An empty PruneSchedule leaves the scheduler stopped without error.
// Starting an already running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	schedule := s.pruner.retention.PruneSchedule
	if schedule == "" {
		s.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}

	id, err := s.cron.AddFunc(schedule, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule retention sweep: %w", err)
	}
	s.entryID = id

	s.cron.Start()
	s.running = true

	s.logger.Info("retention scheduler started",
		"schedule", schedule,
		"max_age_days", s.pruner.retention.MaxAgeDays,
		"max_files", s.pruner.retention.MaxFiles,
	)

	// Stop with the context so prune loops shut down with their host
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runSweep executes one scheduled retention sweep.
func (s *Scheduler) runSweep(ctx context.Context) {
	result, err := s.pruner.Prune(ctx)
	if err != nil {
		s.logger.Error("scheduled retention sweep failed",
			"error", err,
		)
		return
	}

	if result.FilesRemoved > 0 || result.JobsRemoved > 0 {
		s.logger.Info("scheduled retention sweep completed",
			"files_removed", result.FilesRemoved,
			"jobs_removed", result.JobsRemoved,
		)
	} else {
		s.logger.Debug("scheduled retention sweep completed, nothing to remove")
	}
}

// Stop stops the scheduler and waits for a running sweep to complete. The
// sweep entry is removed, so a later Start does not double-schedule.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cron.Remove(s.entryID)
	stopCtx := s.cron.Stop()
	<-stopCtx.Done() // Wait for a running sweep to finish
	s.running = false

	s.logger.Info("retention scheduler stopped")
}

// IsRunning reports whether the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled sweep time, or nil when no sweep is
// scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
