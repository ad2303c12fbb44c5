package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestProgress_Render(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgress(buf, 100)

	progress.Set(50)
	progress.Finish()

	output := buf.String()
	if !strings.Contains(output, "(100/100)") {
		t.Errorf("final render should show completion: %q", output)
	}
	if !strings.Contains(output, "rows/s") {
		t.Errorf("render should show the row rate: %q", output)
	}
	if !strings.HasSuffix(output, "\n") {
		t.Errorf("Finish() should end the bar line: %q", output)
	}
}

func TestProgress_FinalStateAlwaysPaints(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgress(buf, 10)

	// Updates land faster than the repaint interval; the final one must
	// still render.
	for i := 1; i <= 10; i++ {
		progress.Set(i)
	}

	if out := buf.String(); !strings.Contains(out, "(10/10)") {
		t.Errorf("final update was throttled away: %q", out)
	}
}

func TestProgress_ZeroTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgress(buf, 0)

	progress.Set(0)
	progress.Finish()

	// Nothing to render with total 0, just the trailing newline.
	if got := buf.String(); got != "\n" {
		t.Errorf("zero-total output = %q, want newline only", got)
	}
}

func TestProgress_Abort(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgress(buf, 100)

	progress.Set(30)
	progress.Abort()

	output := buf.String()
	if !strings.HasSuffix(output, "\n") {
		t.Errorf("Abort() should end the bar line: %q", output)
	}
	if strings.Contains(output, "(100/100)") {
		t.Errorf("Abort() should not complete the bar: %q", output)
	}
}

func TestProgress_Concurrent(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgress(buf, 1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				progress.Set(start*100 + j)
			}
		}(i)
	}
	wg.Wait()

	progress.Finish()

	if buf.Len() == 0 {
		t.Error("expected progress output")
	}
}

func TestNewProgress_NilWriter(t *testing.T) {
	// Defaults to stderr rather than panicking.
	progress := NewProgress(nil, 10)
	if progress.w == nil {
		t.Error("writer should default to stderr")
	}
}
