package retention

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/cedricOL/LimeSurvey/pkg/config"
	"github.com/cedricOL/LimeSurvey/pkg/export/ledger"
	"github.com/cedricOL/LimeSurvey/pkg/telemetry/metrics"
)

// writeExportFile drops a fake export file into dir with its modification
// time pushed age into the past.
func writeExportFile(tb testing.TB, dir, name string, age time.Duration) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("exported survey data"), 0o644); err != nil {
		tb.Fatalf("WriteFile() failed: %v", err)
	}

	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		tb.Fatalf("Chtimes() failed: %v", err)
	}

	return path
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

// TestPruner_PruneOldFiles tests deleting files older than the age limit.
func TestPruner_PruneOldFiles(t *testing.T) {
	workspace := t.TempDir()

	old1 := writeExportFile(t, workspace, "survey_123_job-old-1.csv", days(10))
	old2 := writeExportFile(t, workspace, "survey_123_job-old-2.pdf", days(8))
	recent1 := writeExportFile(t, workspace, "survey_123_job-recent-1.csv", days(5))
	recent2 := writeExportFile(t, workspace, "survey_456_job-recent-2.xlsx", days(3))

	pruner, err := NewPruner(&PrunerConfig{
		Workspace: workspace,
		Retention: &config.RetentionConfig{MaxAgeDays: 7},
	})
	if err != nil {
		t.Fatalf("NewPruner() failed: %v", err)
	}

	result, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}

	if result.FilesRemoved != 2 {
		t.Errorf("FilesRemoved = %d, want 2", result.FilesRemoved)
	}
	if result.BytesFreed == 0 {
		t.Error("BytesFreed = 0, want > 0")
	}

	for _, path := range []string{old1, old2} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("old file %s should have been deleted", filepath.Base(path))
		}
	}
	for _, path := range []string{recent1, recent2} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("recent file %s should have been kept: %v", filepath.Base(path), err)
		}
	}
}

// TestPruner_RetentionDisabled tests that a sweep is a no-op when both
// limits are zero.
func TestPruner_RetentionDisabled(t *testing.T) {
	workspace := t.TempDir()
	old := writeExportFile(t, workspace, "survey_1_job-ancient.csv", days(100))

	pruner, err := NewPruner(&PrunerConfig{
		Workspace: workspace,
		Retention: &config.RetentionConfig{MaxAgeDays: 0, MaxFiles: 0},
	})
	if err != nil {
		t.Fatalf("NewPruner() failed: %v", err)
	}

	result, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}

	if result.FilesRemoved != 0 {
		t.Errorf("FilesRemoved = %d, want 0 when retention is disabled", result.FilesRemoved)
	}
	if _, err := os.Stat(old); err != nil {
		t.Errorf("file should have been kept: %v", err)
	}
}

// TestPruner_NoFilesToDelete tests a sweep where nothing is old enough.
func TestPruner_NoFilesToDelete(t *testing.T) {
	workspace := t.TempDir()
	writeExportFile(t, workspace, "survey_1_job-a.csv", days(1))
	writeExportFile(t, workspace, "survey_1_job-b.csv", days(2))

	pruner, err := NewPruner(&PrunerConfig{
		Workspace: workspace,
		Retention: &config.RetentionConfig{MaxAgeDays: 7},
	})
	if err != nil {
		t.Fatalf("NewPruner() failed: %v", err)
	}

	result, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}

	if result.FilesRemoved != 0 {
		t.Errorf("FilesRemoved = %d, want 0", result.FilesRemoved)
	}

	entries, _ := os.ReadDir(workspace)
	if len(entries) != 2 {
		t.Errorf("expected 2 files to remain, got %d", len(entries))
	}
}

// TestPruner_EmptyWorkspace tests sweeping an empty workspace.
func TestPruner_EmptyWorkspace(t *testing.T) {
	pruner, err := NewPruner(&PrunerConfig{
		Workspace: t.TempDir(),
		Retention: &config.RetentionConfig{MaxAgeDays: 7},
	})
	if err != nil {
		t.Fatalf("NewPruner() failed: %v", err)
	}

	result, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if result.FilesRemoved != 0 {
		t.Errorf("FilesRemoved = %d, want 0 for empty workspace", result.FilesRemoved)
	}
}

// TestPruner_MissingWorkspace tests sweeping before the first file export
// created the workspace directory.
func TestPruner_MissingWorkspace(t *testing.T) {
	pruner, err := NewPruner(&PrunerConfig{
		Workspace: filepath.Join(t.TempDir(), "does", "not", "exist"),
		Retention: &config.RetentionConfig{MaxAgeDays: 7},
	})
	if err != nil {
		t.Fatalf("NewPruner() failed: %v", err)
	}

	result, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed for missing workspace: %v", err)
	}
	if result.FilesRemoved != 0 {
		t.Errorf("FilesRemoved = %d, want 0", result.FilesRemoved)
	}
}

// TestPruner_CustomRetentionPeriod tests various age limits.
func TestPruner_CustomRetentionPeriod(t *testing.T) {
	tests := []struct {
		name         string
		maxAgeDays   int
		fileAgeDays  int
		shouldDelete bool
	}{
		{
			name:         "30 day retention - 35 days old",
			maxAgeDays:   30,
			fileAgeDays:  35,
			shouldDelete: true,
		},
		{
			name:         "30 day retention - 25 days old",
			maxAgeDays:   30,
			fileAgeDays:  25,
			shouldDelete: false,
		},
		{
			name:         "90 day retention - 100 days old",
			maxAgeDays:   90,
			fileAgeDays:  100,
			shouldDelete: true,
		},
		{
			name:         "1 day retention - 2 days old",
			maxAgeDays:   1,
			fileAgeDays:  2,
			shouldDelete: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workspace := t.TempDir()
			writeExportFile(t, workspace, "survey_1_job-x.csv", days(tt.fileAgeDays))

			pruner, err := NewPruner(&PrunerConfig{
				Workspace: workspace,
				Retention: &config.RetentionConfig{MaxAgeDays: tt.maxAgeDays},
			})
			if err != nil {
				t.Fatalf("NewPruner() failed: %v", err)
			}

			result, err := pruner.Prune(context.Background())
			if err != nil {
				t.Fatalf("Prune() failed: %v", err)
			}

			if tt.shouldDelete && result.FilesRemoved != 1 {
				t.Errorf("expected file to be deleted, got FilesRemoved = %d", result.FilesRemoved)
			}
			if !tt.shouldDelete && result.FilesRemoved != 0 {
				t.Errorf("expected file to remain, got FilesRemoved = %d", result.FilesRemoved)
			}
		})
	}
}

// TestPruner_PruneByCount tests trimming the workspace to the file cap.
func TestPruner_PruneByCount(t *testing.T) {
	tests := []struct {
		name           string
		maxFiles       int
		existingCount  int
		expectedDelete int
	}{
		{
			name:           "within limit - no deletion",
			maxFiles:       10,
			existingCount:  5,
			expectedDelete: 0,
		},
		{
			name:           "at limit - no deletion",
			maxFiles:       10,
			existingCount:  10,
			expectedDelete: 0,
		},
		{
			name:           "exceeds by 1 - delete oldest",
			maxFiles:       10,
			existingCount:  11,
			expectedDelete: 1,
		},
		{
			name:           "exceeds by many - delete oldest batch",
			maxFiles:       10,
			existingCount:  15,
			expectedDelete: 5,
		},
		{
			name:           "unlimited - no deletion",
			maxFiles:       0,
			existingCount:  12,
			expectedDelete: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workspace := t.TempDir()

			// File 0 is the oldest, the last file the newest
			for i := 0; i < tt.existingCount; i++ {
				name := fmt.Sprintf("survey_1_job-%03d.csv", i)
				writeExportFile(t, workspace, name, time.Duration(tt.existingCount-i)*time.Hour)
			}

			pruner, err := NewPruner(&PrunerConfig{
				Workspace: workspace,
				Retention: &config.RetentionConfig{MaxAgeDays: 0, MaxFiles: tt.maxFiles},
			})
			if err != nil {
				t.Fatalf("NewPruner() failed: %v", err)
			}

			result, err := pruner.Prune(context.Background())
			if err != nil {
				t.Fatalf("Prune() failed: %v", err)
			}

			if result.FilesRemoved != tt.expectedDelete {
				t.Errorf("FilesRemoved = %d, want %d", result.FilesRemoved, tt.expectedDelete)
			}

			entries, _ := os.ReadDir(workspace)
			remaining := len(entries)
			if remaining != tt.existingCount-tt.expectedDelete {
				t.Errorf("remaining = %d, want %d", remaining, tt.existingCount-tt.expectedDelete)
			}

			// The oldest files go first
			for i := 0; i < tt.expectedDelete; i++ {
				name := fmt.Sprintf("survey_1_job-%03d.csv", i)
				if _, err := os.Stat(filepath.Join(workspace, name)); !os.IsNotExist(err) {
					t.Errorf("oldest file %s should have been deleted", name)
				}
			}
		})
	}
}

// TestPruner_BothAgeAndCount tests that age and count limits work together.
func TestPruner_BothAgeAndCount(t *testing.T) {
	workspace := t.TempDir()

	// 5 files past the age cutoff
	for i := 0; i < 5; i++ {
		writeExportFile(t, workspace, fmt.Sprintf("survey_1_job-old-%d.csv", i), days(100))
	}
	// 10 recent files, 2 beyond the cap once the old ones are gone
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("survey_1_job-recent-%d.csv", i)
		writeExportFile(t, workspace, name, time.Duration(10-i)*time.Hour)
	}

	pruner, err := NewPruner(&PrunerConfig{
		Workspace: workspace,
		Retention: &config.RetentionConfig{MaxAgeDays: 90, MaxFiles: 8},
	})
	if err != nil {
		t.Fatalf("NewPruner() failed: %v", err)
	}

	result, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}

	// 5 by age, then 10 remaining trimmed to 8
	if result.FilesRemoved != 7 {
		t.Errorf("FilesRemoved = %d, want 7", result.FilesRemoved)
	}

	entries, _ := os.ReadDir(workspace)
	if len(entries) != 8 {
		t.Errorf("remaining = %d, want 8", len(entries))
	}
}

// TestPruner_SkipsForeignFiles tests that only export files are deleted.
func TestPruner_SkipsForeignFiles(t *testing.T) {
	workspace := t.TempDir()

	// Old, but none of them export files
	writeExportFile(t, workspace, "notes.txt", days(100))
	writeExportFile(t, workspace, "data.csv", days(100))
	writeExportFile(t, workspace, "survey_1_draft.md", days(100))
	if err := os.MkdirAll(filepath.Join(workspace, "survey_1_archive.csv"), 0o755); err != nil {
		t.Fatalf("MkdirAll() failed: %v", err)
	}

	old := writeExportFile(t, workspace, "survey_1_job-old.csv", days(100))

	pruner, err := NewPruner(&PrunerConfig{
		Workspace: workspace,
		Retention: &config.RetentionConfig{MaxAgeDays: 7},
	})
	if err != nil {
		t.Fatalf("NewPruner() failed: %v", err)
	}

	result, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}

	if result.FilesRemoved != 1 {
		t.Errorf("FilesRemoved = %d, want only the export file", result.FilesRemoved)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("export file should have been deleted")
	}
	for _, name := range []string{"notes.txt", "data.csv", "survey_1_draft.md", "survey_1_archive.csv"} {
		if _, err := os.Stat(filepath.Join(workspace, name)); err != nil {
			t.Errorf("foreign entry %s should have been kept: %v", name, err)
		}
	}
}

// TestPruner_LedgerPruning tests that ledger rows age out with the files.
func TestPruner_LedgerPruning(t *testing.T) {
	led, err := ledger.NewLedger(&ledger.LedgerConfig{
		Path: filepath.Join(t.TempDir(), "jobs.db"),
	})
	if err != nil {
		t.Fatalf("NewLedger() failed: %v", err)
	}
	defer led.Close()

	ctx := context.Background()
	now := time.Now()

	jobs := []*ledger.Job{
		{ID: "job-old-1", SurveyID: 1, Language: "en", Format: "csv", Destination: "file",
			Status: ledger.StatusCompleted, StartedAt: now.AddDate(0, 0, -40), FinishedAt: now.AddDate(0, 0, -40)},
		{ID: "job-old-2", SurveyID: 1, Language: "en", Format: "pdf", Destination: "file",
			Status: ledger.StatusFailed, StartedAt: now.AddDate(0, 0, -35), FinishedAt: now.AddDate(0, 0, -35)},
		{ID: "job-recent", SurveyID: 2, Language: "de", Format: "csv", Destination: "display",
			Status: ledger.StatusCompleted, StartedAt: now.AddDate(0, 0, -5), FinishedAt: now.AddDate(0, 0, -5)},
	}
	for _, job := range jobs {
		if err := led.Record(ctx, job); err != nil {
			t.Fatalf("Record() failed: %v", err)
		}
	}

	pruner, err := NewPruner(&PrunerConfig{
		Workspace: t.TempDir(),
		Retention: &config.RetentionConfig{MaxAgeDays: 30},
		Ledger:    led,
	})
	if err != nil {
		t.Fatalf("NewPruner() failed: %v", err)
	}

	result, err := pruner.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}

	if result.JobsRemoved != 2 {
		t.Errorf("JobsRemoved = %d, want 2", result.JobsRemoved)
	}

	remaining, err := led.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != "job-recent" {
		t.Errorf("expected only job-recent to remain, got %d jobs", len(remaining))
	}
}

// TestPruner_RecordsMetrics tests that a sweep shows up in the collector.
func TestPruner_RecordsMetrics(t *testing.T) {
	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true}, nil)

	workspace := t.TempDir()
	writeExportFile(t, workspace, "survey_9_job-old-a.csv", days(10))
	writeExportFile(t, workspace, "survey_9_job-old-b.pdf", days(12))

	pruner, err := NewPruner(&PrunerConfig{
		Workspace: workspace,
		Retention: &config.RetentionConfig{MaxAgeDays: 7},
		Metrics:   collector,
	})
	if err != nil {
		t.Fatalf("NewPruner() failed: %v", err)
	}

	if _, err := pruner.Prune(context.Background()); err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}

	expected := strings.NewReader(`
# HELP lsexport_prune_runs_total Total number of retention sweeps
# TYPE lsexport_prune_runs_total counter
lsexport_prune_runs_total{status="completed"} 1
# HELP lsexport_pruned_files_total Total number of export files removed by retention
# TYPE lsexport_pruned_files_total counter
lsexport_pruned_files_total 2
`)
	err = testutil.GatherAndCompare(collector.Registry(), expected,
		"lsexport_prune_runs_total", "lsexport_pruned_files_total")
	if err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

// TestPruner_ContextCancellation tests that a cancelled context stops the
// sweep between file removals.
func TestPruner_ContextCancellation(t *testing.T) {
	workspace := t.TempDir()
	for i := 0; i < 10; i++ {
		writeExportFile(t, workspace, fmt.Sprintf("survey_1_job-%d.csv", i), days(30))
	}

	pruner, err := NewPruner(&PrunerConfig{
		Workspace: workspace,
		Retention: &config.RetentionConfig{MaxAgeDays: 7},
	})
	if err != nil {
		t.Fatalf("NewPruner() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := pruner.Prune(ctx); err == nil {
		t.Error("Prune() with cancelled context should fail")
	}
}

// TestNewPruner tests constructor validation and defaults.
func TestNewPruner(t *testing.T) {
	if _, err := NewPruner(nil); err == nil {
		t.Error("NewPruner(nil) should fail")
	}

	if _, err := NewPruner(&PrunerConfig{}); err == nil {
		t.Error("NewPruner() without workspace should fail")
	}

	pruner, err := NewPruner(&PrunerConfig{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("NewPruner() failed: %v", err)
	}
	if pruner.retention.MaxAgeDays != config.DefaultRetentionMaxAgeDays {
		t.Errorf("MaxAgeDays = %d, want default %d",
			pruner.retention.MaxAgeDays, config.DefaultRetentionMaxAgeDays)
	}
	if pruner.retention.PruneSchedule != config.DefaultRetentionSchedule {
		t.Errorf("PruneSchedule = %q, want default %q",
			pruner.retention.PruneSchedule, config.DefaultRetentionSchedule)
	}
	if pruner.scheduler == nil {
		t.Error("expected scheduler to be created")
	}
}

// TestIsExportFile tests the workspace file name filter.
func TestIsExportFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"survey_123_f0a1.csv", true},
		{"survey_123_f0a1.doc", true},
		{"survey_123_f0a1.xlsx", true},
		{"survey_123_f0a1.pdf", true},
		{"survey_1_F0A1.CSV", true}, // Case-insensitive extension
		{"survey_1_notes.txt", false},
		{"survey_1_draft.md", false},
		{"data.csv", false},
		{"responses.xlsx", false},
		{"survey_", false},
		{"survey_1", false},
		{".csv", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isExportFile(tt.name); got != tt.want {
				t.Errorf("isExportFile(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

// BenchmarkPruner_Prune benchmarks a sweep over a populated workspace.
func BenchmarkPruner_Prune(b *testing.B) {
	workspace := b.TempDir()

	// Recent files that survive every sweep
	for i := 0; i < 100; i++ {
		writeExportFile(b, workspace, fmt.Sprintf("survey_1_job-keep-%03d.csv", i), time.Hour)
	}

	pruner, err := NewPruner(&PrunerConfig{
		Workspace: workspace,
		Retention: &config.RetentionConfig{MaxAgeDays: 7},
	})
	if err != nil {
		b.Fatalf("NewPruner() failed: %v", err)
	}

	ctx := context.Background()
	old := time.Now().AddDate(0, 0, -10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		// Restore the prunable files for the next iteration
		for j := 0; j < 100; j++ {
			path := filepath.Join(workspace, fmt.Sprintf("survey_1_job-old-%03d.csv", j))
			if err := os.WriteFile(path, []byte("exported survey data"), 0o644); err != nil {
				b.Fatalf("WriteFile() failed: %v", err)
			}
			if err := os.Chtimes(path, old, old); err != nil {
				b.Fatalf("Chtimes() failed: %v", err)
			}
		}
		b.StartTimer()

		if _, err := pruner.Prune(ctx); err != nil {
			b.Fatalf("Prune() failed: %v", err)
		}
	}
}
