// Package watch reloads the credential store when its snapshot file changes
// on disk, so a running TUI or API server sees writes from other locksmith
// processes.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is how long the watcher waits after the last event before
// reloading.
const Debounce = 500 * time.Millisecond

// Reloader re-reads persisted state and reports whether anything changed.
type Reloader interface {
	Reload() bool
}

// Watcher watches one snapshot file.
type Watcher struct {
	path     string
	target   Reloader
	debounce time.Duration
	logger   *slog.Logger
	onReload func()
}

// New creates a watcher for the file at path.
func New(path string, target Reloader) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		target:   target,
		debounce: Debounce,
		logger:   slog.With("component", "watch"),
	}
}

// OnReload registers fn to run after a reload that changed the collection.
func (w *Watcher) OnReload(fn func()) {
	w.onReload = fn
}

// Run watches the snapshot's directory and triggers Reload on changes to
// the snapshot file. The directory is watched rather than the file because
// atomic saves replace the file via rename. Run blocks until ctx is
// cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.logger.Info("watching snapshot for changes", "path", w.path)

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("snapshot changed", "op", event.Op)

			// Debounce: reset timer on each event
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				if w.target.Reload() {
					w.logger.Info("credentials reloaded after file change")
					if w.onReload != nil {
						w.onReload()
					}
				} else {
					w.logger.Debug("reload: no changes detected")
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}
