package retention

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cedricOL/LimeSurvey/pkg/config"
)

func newTestPruner(t *testing.T, schedule string) *Pruner {
	t.Helper()

	pruner, err := NewPruner(&PrunerConfig{
		Workspace: t.TempDir(),
		Retention: &config.RetentionConfig{
			MaxAgeDays:    30,
			PruneSchedule: schedule,
		},
	})
	if err != nil {
		t.Fatalf("NewPruner() failed: %v", err)
	}
	return pruner
}

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{
			name:        "valid daily schedule",
			schedule:    "0 3 * * *",
			wantRunning: true,
			wantError:   false,
		},
		{
			name:        "valid hourly schedule",
			schedule:    "0 * * * *",
			wantRunning: true,
			wantError:   false,
		},
		{
			name:        "empty schedule - no error, not running",
			schedule:    "",
			wantRunning: false,
			wantError:   false,
		},
		{
			name:        "invalid schedule",
			schedule:    "invalid cron",
			wantRunning: false,
			wantError:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := NewScheduler(newTestPruner(t, tt.schedule))

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := scheduler.Start(ctx)

			if (err != nil) != tt.wantError {
				t.Errorf("Start() error = %v, wantError %v", err, tt.wantError)
			}

			if scheduler.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v",
					scheduler.IsRunning(), tt.wantRunning)
			}

			if tt.wantRunning {
				next := scheduler.NextRun()
				if next == nil {
					t.Error("NextRun() returned nil for running scheduler")
				} else {
					t.Logf("Next run: %s", next)
				}
			}

			scheduler.Stop()

			if scheduler.IsRunning() {
				t.Error("scheduler still running after Stop()")
			}
		})
	}
}

// TestScheduler_RunSweep tests the sweep a cron firing would trigger.
func TestScheduler_RunSweep(t *testing.T) {
	workspace := t.TempDir()
	old := writeExportFile(t, workspace, "survey_7_job-old.csv", days(60))

	pruner, err := NewPruner(&PrunerConfig{
		Workspace: workspace,
		Retention: &config.RetentionConfig{
			MaxAgeDays:    30,
			PruneSchedule: "0 3 * * *",
		},
	})
	if err != nil {
		t.Fatalf("NewPruner() failed: %v", err)
	}

	scheduler := NewScheduler(pruner)
	scheduler.runSweep(context.Background())

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("sweep should have deleted the old export file")
	}
}

func TestScheduler_GracefulShutdown(t *testing.T) {
	scheduler := NewScheduler(newTestPruner(t, "0 3 * * *"))

	ctx, cancel := context.WithCancel(context.Background())

	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// Context cancellation doubles as shutdown
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for scheduler.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if scheduler.IsRunning() {
		t.Error("scheduler still running after context cancelled")
	}
}

func TestScheduler_NextRun(t *testing.T) {
	scheduler := NewScheduler(newTestPruner(t, "0 3 * * *"))

	if next := scheduler.NextRun(); next != nil {
		t.Errorf("NextRun() before start = %v, want nil", next)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer scheduler.Stop()

	next := scheduler.NextRun()
	if next == nil {
		t.Fatal("NextRun() after start returned nil")
	}
	if !next.After(time.Now()) {
		t.Errorf("NextRun() = %v, want time in future", next)
	}

	t.Logf("Next scheduled run: %s", next)
}

func TestScheduler_MultipleStartStop(t *testing.T) {
	scheduler := NewScheduler(newTestPruner(t, "0 * * * *"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for i := 0; i < 3; i++ {
		if err := scheduler.Start(ctx); err != nil {
			t.Fatalf("Start() iteration %d failed: %v", i, err)
		}

		if !scheduler.IsRunning() {
			t.Errorf("IsRunning() = false after Start() iteration %d", i)
		}

		// Restarting must not stack up sweep entries
		if entries := scheduler.cron.Entries(); len(entries) != 1 {
			t.Errorf("cron entries after Start() iteration %d = %d, want 1", i, len(entries))
		}

		scheduler.Stop()

		if scheduler.IsRunning() {
			t.Errorf("IsRunning() = true after Stop() iteration %d", i)
		}
	}
}

func TestScheduler_StartTwice(t *testing.T) {
	scheduler := NewScheduler(newTestPruner(t, "0 3 * * *"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("second Start() failed: %v", err)
	}

	if entries := scheduler.cron.Entries(); len(entries) != 1 {
		t.Errorf("cron entries after double Start() = %d, want 1", len(entries))
	}

	scheduler.Stop()
}

func TestPruner_StartStop(t *testing.T) {
	// The Pruner's Start/Stop methods delegate to its scheduler
	pruner := newTestPruner(t, "0 3 * * *")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := pruner.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if !pruner.scheduler.IsRunning() {
		t.Error("scheduler not running after Pruner.Start()")
	}

	next := pruner.NextPruning()
	if next == nil {
		t.Error("NextPruning() returned nil")
	} else {
		t.Logf("Next pruning: %s", next)
	}

	pruner.Stop()

	if pruner.scheduler.IsRunning() {
		t.Error("scheduler still running after Pruner.Stop()")
	}
}
