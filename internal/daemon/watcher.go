package daemon

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/wheelwright/internal/logfields"
)

// SourceWatcher monitors the package source tree and triggers a rebuild after
// a quiet period. fsnotify is not recursive, so the watcher registers every
// subdirectory under the configured paths.
type SourceWatcher struct {
	watcher  *fsnotify.Watcher
	paths    []string
	debounce time.Duration
	trigger  func()
	stopChan chan struct{}
}

// NewSourceWatcher creates a watcher over the given paths.
func NewSourceWatcher(paths []string, debounce time.Duration, trigger func()) (*SourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &SourceWatcher{
		watcher:  watcher,
		paths:    paths,
		debounce: debounce,
		trigger:  trigger,
		stopChan: make(chan struct{}),
	}, nil
}

// skipDir filters directories that only ever contain generated content.
func skipDir(name string) bool {
	switch name {
	case ".git", "build", "dist", "output", "__pycache__", ".wheelwright":
		return true
	}
	return strings.HasSuffix(name, ".egg-info")
}

// Start registers the watch paths and begins the event loop.
func (w *SourceWatcher) Start(ctx context.Context) error {
	for _, path := range w.paths {
		if err := w.addRecursive(path); err != nil {
			return err
		}
	}

	slog.Info("Watching source paths", logfields.Count(len(w.watcher.WatchList())))
	go w.watchLoop(ctx)
	return nil
}

func (w *SourceWatcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *SourceWatcher) watchLoop(ctx context.Context) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Source change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))

			// New directories need to be picked up for further events.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDir(info.Name()) {
					_ = w.addRecursive(event.Name)
				}
			}

			if timer == nil {
				timer = time.AfterFunc(w.debounce, w.trigger)
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("File watcher error", logfields.Error(err))
		}
	}
}

// Stop shuts the watcher down.
func (w *SourceWatcher) Stop() error {
	close(w.stopChan)
	return w.watcher.Close()
}
