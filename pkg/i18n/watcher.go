package i18n

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// BundleWatcher watches the translation bundle directory for changes and
// triggers cache invalidation. It debounces bursts of events so a translator
// saving repeatedly does not cause a reload storm.
type BundleWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   *BundleWatcherConfig
	debounce *Debouncer

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// BundleWatcherConfig controls what the bundle watcher reacts to.
type BundleWatcherConfig struct {
	// Path is the bundle file or directory to watch.
	Path string

	// DebounceInterval is how long a burst of file events must go quiet
	// before a reload fires. Defaults to 100ms.
	DebounceInterval time.Duration

	// Extensions restricts events to bundle files (".yaml", ".yml").
	Extensions []string

	// SkipHidden ignores dotfiles, including editor swap files.
	SkipHidden bool
}

// DefaultBundleWatcherConfig returns the default watcher configuration.
func DefaultBundleWatcherConfig() *BundleWatcherConfig {
	return &BundleWatcherConfig{
		DebounceInterval: 100 * time.Millisecond,
		Extensions:       []string{".yaml", ".yml"},
		SkipHidden:       true,
	}
}

// NewBundleWatcher builds a watcher over the fsnotify backend. Nil config or
// logger fall back to the defaults.
func NewBundleWatcher(config *BundleWatcherConfig, logger *slog.Logger) (*BundleWatcher, error) {
	if config == nil {
		config = DefaultBundleWatcherConfig()
	}

	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	bw := &BundleWatcher{
		watcher:  watcher,
		logger:   logger,
		config:   config,
		debounce: NewDebouncer(config.DebounceInterval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	return bw, nil
}

// Watch starts watching for bundle changes and invokes onChange after each
// debounced burst of events. This is a blocking operation that runs until the
// context is cancelled or Stop is called.
func (bw *BundleWatcher) Watch(ctx context.Context, onChange func() error) error {
	bw.mu.Lock()
	if bw.running {
		bw.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	bw.running = true
	bw.mu.Unlock()

	defer func() {
		bw.mu.Lock()
		bw.running = false
		bw.mu.Unlock()
		close(bw.doneCh)
	}()

	if err := bw.addPath(bw.config.Path); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}

	bw.logger.Info("Translation bundle watcher started",
		"path", bw.config.Path,
		"debounce_ms", bw.config.DebounceInterval.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			bw.logger.Info("Bundle watcher stopped (context cancelled)")
			return nil

		case <-bw.stopCh:
			bw.logger.Info("Bundle watcher stopped")
			return nil

		case event, ok := <-bw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if !bw.shouldProcessEvent(event) {
				continue
			}

			bw.logger.Debug("Bundle file event detected",
				"path", event.Name,
				"op", event.Op.String(),
			)

			bw.debounce.Trigger(func() {
				bw.logger.Info("Reloading translation bundles",
					"path", event.Name,
					"op", event.Op.String(),
				)

				if err := onChange(); err != nil {
					bw.logger.Error("Bundle reload failed",
						"error", err,
					)
				}
			})

		case err, ok := <-bw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}

			// A watch error on one file does not stop the loop.
			bw.logger.Error("Bundle watcher error", "error", err)
		}
	}
}

// Stop signals the watch loop to exit and blocks until it has. Stopping a
// watcher that never ran is a no-op.
func (bw *BundleWatcher) Stop() error {
	bw.mu.Lock()
	if !bw.running {
		bw.mu.Unlock()
		return nil
	}
	bw.mu.Unlock()

	close(bw.stopCh)
	<-bw.doneCh

	bw.debounce.Stop()

	if err := bw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	return nil
}

// addPath registers path with fsnotify, walking it when it is a directory.
func (bw *BundleWatcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return bw.addDirectory(path)
	}

	return bw.watcher.Add(path)
}

// addDirectory walks dir and registers every non-hidden subdirectory.
func (bw *BundleWatcher) addDirectory(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if bw.config.SkipHidden && strings.HasPrefix(filepath.Base(path), ".") && path != dir {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if err := bw.watcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch directory %q: %w", path, err)
			}
			bw.logger.Debug("Watching directory", "path", path)
		}

		return nil
	})
}

// shouldProcessEvent filters out chmods, non-bundle extensions, and hidden
// files before an event reaches the debouncer.
func (bw *BundleWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}

	ext := strings.ToLower(filepath.Ext(event.Name))
	if !bw.hasValidExtension(ext) {
		return false
	}

	if bw.config.SkipHidden && strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}

	return true
}

// hasValidExtension reports whether ext names a watched bundle type.
func (bw *BundleWatcher) hasValidExtension(ext string) bool {
	for _, validExt := range bw.config.Extensions {
		if ext == strings.ToLower(validExt) {
			return true
		}
	}
	return false
}

// Debouncer coalesces a burst of events into one callback, fired once the
// burst has gone quiet for the configured interval.
type Debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	callback func()
	stopCh   chan struct{}
}

// NewDebouncer returns a debouncer with the given quiet interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Trigger arms the debouncer with callback, replacing any pending one and
// restarting the quiet interval. The last callback wins.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.callback = callback

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		select {
		case <-d.stopCh:
			return
		default:
			d.mu.Lock()
			cb := d.callback
			d.mu.Unlock()

			if cb != nil {
				cb()
			}
		}
	})
}

// Stop cancels the pending callback, if any. The debouncer cannot be reused
// afterwards.
func (d *Debouncer) Stop() {
	close(d.stopCh)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
