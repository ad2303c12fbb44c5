package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	progressBarWidth = 40

	// Repaints are throttled so tight loops spend their time on work, not
	// on terminal escapes. The final state always paints.
	progressInterval = 100 * time.Millisecond
)

// Progress is a single-line terminal progress bar for row-oriented work
// such as seeding response data. Safe for concurrent use.
type Progress struct {
	mu       sync.Mutex
	w        io.Writer
	total    int
	current  int
	started  time.Time
	lastDraw time.Time
}

// NewProgress starts a bar expecting total items. Output goes to w,
// defaulting to stderr so the bar never mixes with export data on stdout.
func NewProgress(w io.Writer, total int) *Progress {
	if w == nil {
		w = os.Stderr
	}
	p := &Progress{w: w, total: total, started: time.Now()}
	p.draw(true)
	return p
}

// Set moves the bar to current.
func (p *Progress) Set(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = current
	p.draw(current >= p.total)
}

// Finish completes the bar and moves to the next line.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current = p.total
	p.draw(true)
	fmt.Fprintln(p.w)
}

// Abort ends the bar line without completing it, leaving the terminal
// clean for the error the caller is about to report.
func (p *Progress) Abort() {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.w)
}

func (p *Progress) draw(force bool) {
	if p.total <= 0 {
		return
	}

	now := time.Now()
	if !force && now.Sub(p.lastDraw) < progressInterval {
		return
	}
	p.lastDraw = now

	ratio := float64(p.current) / float64(p.total)
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * progressBarWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBarWidth-filled)

	rate := 0.0
	if elapsed := now.Sub(p.started).Seconds(); elapsed > 0 {
		rate = float64(p.current) / elapsed
	}

	fmt.Fprintf(p.w, "\r[%s] %3.0f%% (%d/%d) %.0f rows/s",
		bar, ratio*100, p.current, p.total, rate)
}
