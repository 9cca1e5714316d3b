// Package udevwatch is an optional, separately-importable inotify
// wrapper feeding two signals this library's core packages never
// watch for themselves: hwdb binary replacement and device-manager
// daemon appearance/disappearance. Neither udev/hwdb, udev/monitor,
// udev/enumerate, nor udev/queue import this package — callers who
// want live-reload behavior opt in explicitly.
package udevwatch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ControlWatcher reports appearance and disappearance of the
// device-manager daemon's <run>/udev/control marker, the liveness
// signal udev/queue.IsActive also probes synchronously. It exists for
// callers who want to react to daemon start/stop rather than poll.
type ControlWatcher struct {
	path    string
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
}

// NewControlWatcher returns a ControlWatcher for the control marker
// under runRoot. logger defaults to slog.Default() when nil.
func NewControlWatcher(runRoot string, logger *slog.Logger) *ControlWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ControlWatcher{path: filepath.Join(runRoot, "udev", "control"), logger: logger}
}

// Start watches the control marker's parent directory (inotify cannot
// watch a path that doesn't exist yet) and invokes onChange with true
// when the marker appears, false when it disappears. Start returns
// once the watch is installed; delivery happens on its own goroutine
// until ctx is canceled or Stop is called.
func (w *ControlWatcher) Start(ctx context.Context, onChange func(active bool)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return err
	}
	w.watcher = watcher

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	go w.watch(ctx, onChange)
	return nil
}

func (w *ControlWatcher) watch(ctx context.Context, onChange func(active bool)) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			switch {
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				onChange(true)
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				onChange(false)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("control watcher error", "error", err)
		}
	}
}

// Stop releases the underlying inotify watch.
func (w *ControlWatcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

// HwdbWatcher watches the directory containing the hwdb binary for a
// replacement (the daemon atomically renames a freshly compiled
// hwdb.bin into place), debouncing bursts of events into a single
// reload signal.
type HwdbWatcher struct {
	dir      string
	name     string
	debounce time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	cancel   context.CancelFunc
}

// NewHwdbWatcher returns a HwdbWatcher for the hwdb binary at path,
// debouncing reload signals by debounce (zero selects 1500ms, matching
// internal/config.Watcher's default).
func NewHwdbWatcher(path string, debounce time.Duration, logger *slog.Logger) *HwdbWatcher {
	if debounce <= 0 {
		debounce = 1500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HwdbWatcher{
		dir:      filepath.Dir(path),
		name:     filepath.Base(path),
		debounce: debounce,
		logger:   logger,
	}
}

// Start watches the hwdb directory and invokes onReload once,
// debounce after the last qualifying event, whenever the binary is
// replaced. Start returns once the watch is installed.
func (w *HwdbWatcher) Start(ctx context.Context, onReload func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return err
	}
	w.watcher = watcher

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	go w.watch(ctx, onReload)
	return nil
}

func (w *HwdbWatcher) watch(ctx context.Context, onReload func()) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != w.name {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerC = timer.C
		case <-timerC:
			w.logger.Info("hwdb binary replaced, signaling reload", "path", filepath.Join(w.dir, w.name))
			onReload()
			timerC = nil
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("hwdb watcher error", "error", err)
		}
	}
}

// Stop releases the underlying inotify watch.
func (w *HwdbWatcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
