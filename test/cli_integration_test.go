//go:build integration

package test

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestSeedAndExportFlow tests the full CLI flow: seed a demo survey, export
// it to the display and to a workspace file, then list the recorded jobs.
func TestSeedAndExportFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	configFile := createTestConfig(t, tmpDir)
	binaryPath := buildLsexportBinary(t)

	// Step 1: Seed the demo survey
	t.Log("Step 1: Seeding the demo survey...")
	stdout, stderr, err := runLsexport(binaryPath, "seed", "--survey", "777", "--responses", "40", "--config", configFile)
	if err != nil {
		t.Fatalf("seed failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}
	if !strings.Contains(stdout, "Seeded survey 777 with 40 responses") {
		t.Errorf("unexpected seed output: %s", stdout)
	}

	// Step 2: Display export streams CSV to stdout
	t.Log("Step 2: Display export...")
	stdout, stderr, err = runLsexport(binaryPath, "export", "--survey", "777", "--config", configFile)
	if err != nil {
		t.Fatalf("export failed: %v\nStderr: %s", err, stderr)
	}
	if lines := strings.Count(stdout, "\n"); lines != 41 {
		t.Errorf("display export = %d lines, want header plus 40 rows", lines)
	}
	if !strings.HasPrefix(stdout, "id,") {
		t.Errorf("display export header = %q", strings.SplitN(stdout, "\n", 2)[0])
	}

	// Step 3: File export lands in the workspace
	t.Log("Step 3: File export...")
	_, stderr, err = runLsexport(binaryPath, "export", "--survey", "777", "--file", "--config", configFile)
	if err != nil {
		t.Fatalf("file export failed: %v\nStderr: %s", err, stderr)
	}
	matches, err := filepath.Glob(filepath.Join(tmpDir, "exports", "survey_777_*.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("workspace files = %v, want one export", matches)
	}

	// Step 4: Both runs appear in the job history
	t.Log("Step 4: Job history...")
	stdout, stderr, err = runLsexport(binaryPath, "jobs", "--survey", "777", "--format", "json", "--config", configFile)
	if err != nil {
		t.Fatalf("jobs failed: %v\nStderr: %s", err, stderr)
	}
	if !strings.Contains(stdout, `"survey_id": 777`) {
		t.Errorf("jobs output missing survey 777:\n%s", stdout)
	}
	if !strings.Contains(stdout, `"completed"`) {
		t.Errorf("jobs output missing completed status:\n%s", stdout)
	}
}

// TestLocalizedExport tests a German full-heading long-answer export.
func TestLocalizedExport(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	configFile := createTestConfig(t, tmpDir)
	binaryPath := buildLsexportBinary(t)

	_, stderr, err := runLsexport(binaryPath, "seed", "--survey", "888", "--responses", "25", "--config", configFile)
	if err != nil {
		t.Fatalf("seed failed: %v\nStderr: %s", err, stderr)
	}

	stdout, stderr, err := runLsexport(binaryPath, "export",
		"--survey", "888",
		"--language", "de",
		"--headings", "full",
		"--answers", "long",
		"--config", configFile)
	if err != nil {
		t.Fatalf("export failed: %v\nStderr: %s", err, stderr)
	}
	if lines := strings.Count(stdout, "\n"); lines != 26 {
		t.Errorf("export = %d lines, want header plus 25 rows", lines)
	}
	header := strings.SplitN(stdout, "\n", 2)[0]
	if !strings.Contains(header, "Wie haben Sie von uns erfahren?") {
		t.Errorf("header is not localized: %q", header)
	}
	if !strings.Contains(header, "Servicequalität") {
		t.Errorf("header is missing the sub-question text: %q", header)
	}
}

// TestPruneSweep tests a one-shot retention sweep against an empty workspace.
func TestPruneSweep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	configFile := createTestConfig(t, tmpDir)
	binaryPath := buildLsexportBinary(t)

	stdout, stderr, err := runLsexport(binaryPath, "prune", "--config", configFile)
	if err != nil {
		t.Fatalf("prune failed: %v\nStderr: %s", err, stderr)
	}
	if !strings.Contains(stdout, "Removed 0 export files") {
		t.Errorf("unexpected prune output: %s", stdout)
	}
}

// TestExportUnknownSurveyFails tests the error path for a missing survey.
func TestExportUnknownSurveyFails(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	configFile := createTestConfig(t, tmpDir)
	binaryPath := buildLsexportBinary(t)

	_, stderr, err := runLsexport(binaryPath, "export", "--survey", "424242", "--config", configFile)
	if err == nil {
		t.Fatal("export of a missing survey should fail")
	}
	if !strings.Contains(stderr, "424242") {
		t.Errorf("stderr does not name the missing survey: %s", stderr)
	}
}

// TestVersionCommandOutput tests the version command.
func TestVersionCommandOutput(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	binaryPath := buildLsexportBinary(t)

	stdout, stderr, err := runLsexport(binaryPath, "version")
	if err != nil {
		t.Fatalf("version command failed: %v\nStderr: %s", err, stderr)
	}
	if !strings.Contains(stdout, "lsexport") {
		t.Errorf("version output should contain 'lsexport', got: %s", stdout)
	}
}

// buildLsexportBinary compiles the binary once and reuses it across tests.
func buildLsexportBinary(t *testing.T) string {
	t.Helper()

	binaryPath := "../bin/lsexport"
	if _, err := os.Stat(binaryPath); err == nil {
		return binaryPath
	}

	t.Log("Building lsexport binary...")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../cmd/lsexport")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build lsexport: %v\nOutput: %s", err, output)
	}
	return binaryPath
}

// runLsexport runs the binary with separated stdout and stderr. Display
// exports write data to stdout and their summary to stderr, so the two
// must not be mixed.
func runLsexport(binary string, args ...string) (string, string, error) {
	cmd := exec.Command(binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// createTestConfig writes a config pointing every path at the test's temp
// directory and returns the config file path.
func createTestConfig(t *testing.T, dir string) string {
	t.Helper()

	configFile := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`storage:
  backend: "sqlite"
  sqlite:
    path: "%s"

export:
  workspace: "%s"
  delimiter: ","
  default_format: "csv"

ledger:
  enabled: true
  path: "%s"

telemetry:
  logging:
    level: "warn"
    format: "json"
  metrics:
    enabled: false
`,
		filepath.Join(dir, "survey.db"),
		filepath.Join(dir, "exports"),
		filepath.Join(dir, "jobs.db"))

	if err := os.WriteFile(configFile, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create config file: %v", err)
	}
	return configFile
}
