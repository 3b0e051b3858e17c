package sysfs

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/ddcswitch/internal/domain"
	"github.com/bft-labs/ddcswitch/internal/ports"
)

// Watcher defaults.
const (
	// DefaultDebounce collapses the burst of events a dock or MST hub produces.
	DefaultDebounce = 250 * time.Millisecond

	// DefaultPollInterval is how often connector status is re-read. sysfs
	// attributes do not raise inotify events.
	DefaultPollInterval = 2 * time.Second
)

// WatcherConfig contains timing for the watcher. Zero values select the defaults.
type WatcherConfig struct {
	Debounce     time.Duration
	PollInterval time.Duration
}

// Watcher reports display list changes. Bus nodes appearing or vanishing in
// the device directory (a dock or DisplayPort MST hub) are seen through
// fsnotify; monitors plugged into an existing connector only change its
// status attribute, so the display list is also polled and diffed.
type Watcher struct {
	locator *Locator
	logger  ports.Logger
	config  WatcherConfig

	mu       sync.Mutex
	timer    *time.Timer
	stopped  bool
	inflight sync.WaitGroup

	// emitMu serializes refreshes so onChange never runs concurrently.
	emitMu sync.Mutex
	last   []domain.Display
}

// NewWatcher creates a watcher over the locator's sysfs tree and device directory.
func NewWatcher(locator *Locator, config WatcherConfig, logger ports.Logger) *Watcher {
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	return &Watcher{
		locator: locator,
		logger:  logger,
		config:  config,
	}
}

// Run blocks until ctx is done, calling onChange with a fresh display list
// after each burst of bus node events and whenever a poll finds the list
// changed. onChange is never called after Run returns.
func (w *Watcher) Run(ctx context.Context, onChange func([]domain.Display)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := w.locator.DevDir()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	w.mu.Lock()
	w.stopped = false
	w.mu.Unlock()
	defer w.stop()

	w.emitMu.Lock()
	w.last, err = w.locator.Displays(ctx)
	w.emitMu.Unlock()
	if err != nil {
		w.logger.Warn("initial display scan failed", ports.Err(err))
	}

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			w.refresh(ctx, onChange, false)

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !i2cNameRe.MatchString(filepath.Base(event.Name)) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}
			w.logger.Debug("bus node changed", ports.String("path", event.Name), ports.String("op", event.Op.String()))
			w.schedule(ctx, onChange)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", ports.Err(err))
		}
	}
}

// refresh re-enumerates displays and calls onChange when the list differs
// from the last one reported, or unconditionally when force is set.
func (w *Watcher) refresh(ctx context.Context, onChange func([]domain.Display), force bool) {
	w.emitMu.Lock()
	defer w.emitMu.Unlock()

	if ctx.Err() != nil {
		return
	}
	displays, err := w.locator.Displays(ctx)
	if err != nil {
		w.logger.Warn("refresh displays failed", ports.Err(err))
		return
	}
	if !force && sameDisplays(w.last, displays) {
		return
	}
	w.last = displays
	w.logger.Debug("display list changed", ports.Int("displays", len(displays)))
	onChange(displays)
}

func (w *Watcher) schedule(ctx context.Context, onChange func([]domain.Display)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.config.Debounce, func() {
		w.mu.Lock()
		if w.stopped {
			w.mu.Unlock()
			return
		}
		w.inflight.Add(1)
		w.mu.Unlock()
		defer w.inflight.Done()

		w.refresh(ctx, onChange, true)
	})
}

// stop cancels a pending refresh and waits for one already running.
func (w *Watcher) stop() {
	w.mu.Lock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	w.inflight.Wait()
}

func sameDisplays(a, b []domain.Display) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Label != b[i].Label {
			return false
		}
		if (a[i].Bus == nil) != (b[i].Bus == nil) {
			return false
		}
		if a[i].Bus != nil && *a[i].Bus != *b[i].Bus {
			return false
		}
	}
	return true
}
