// Package confwatch reloads the log level when the config file changes.
package confwatch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce collapses the burst of events editors emit for one save.
const debounce = 200 * time.Millisecond

// Loader re-reads the configuration and returns the log level it sets.
type Loader func() (slog.Level, error)

// Watcher applies the configured log level to a LevelVar on every change
// to the config file. Invalid files are logged and ignored.
type Watcher struct {
	fs     *fsnotify.Watcher
	path   string
	level  *slog.LevelVar
	load   Loader
	logger *slog.Logger
}

// New starts watching the directory of path. Editors often replace the file
// instead of writing it, so the directory is watched rather than the file.
func New(path string, level *slog.LevelVar, load Loader, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("confwatch: resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("confwatch: new watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("confwatch: watch %s: %w", filepath.Dir(abs), err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{fs: fw, path: abs, level: level, load: load, logger: logger}, nil
}

// Run processes events until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()
	w.logger.Info("confwatch: started", slog.String("path", w.path))

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			w.logger.Info("confwatch: stopped")
			return nil

		case <-fire:
			fire = nil
			w.reload()

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("confwatch: error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) reload() {
	lvl, err := w.load()
	if err != nil {
		w.logger.Warn("confwatch: ignoring invalid config",
			slog.String("path", w.path),
			slog.String("error", err.Error()))
		return
	}
	if prev := w.level.Level(); prev != lvl {
		w.level.Set(lvl)
		w.logger.Info("confwatch: log level changed",
			slog.String("from", prev.String()),
			slog.String("to", lvl.String()))
	}
}
