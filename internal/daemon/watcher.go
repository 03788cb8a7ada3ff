package daemon

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mixcrate/internal/api"
	"mixcrate/internal/config"
	"mixcrate/internal/fileutil"
	"mixcrate/internal/logging"
)

// watcher triggers a rescan after filesystem activity in the library roots
// settles. fsnotify watches are not recursive, so every directory under each
// root is registered, and directories created later are added as they appear.
type watcher struct {
	fsWatcher  *fsnotify.Watcher
	service    *api.LibraryService
	logger     *slog.Logger
	extensions map[string]struct{}
	debounce   time.Duration

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

func newWatcher(cfg *config.Config, service *api.LibraryService, logger *slog.Logger) (*watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	debounce := time.Duration(cfg.Library.WatchDebounceSeconds) * time.Second
	if debounce <= 0 {
		debounce = 5 * time.Second
	}

	w := &watcher{
		fsWatcher:  fsWatcher,
		service:    service,
		logger:     logging.NewComponentLogger(logger, "watcher"),
		extensions: fileutil.ExtensionSet(cfg.Library.Extensions),
		debounce:   debounce,
		done:       make(chan struct{}),
	}

	for _, root := range cfg.Library.Roots {
		w.addTree(root)
	}
	return w, nil
}

func (w *watcher) start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *watcher) stop() {
	close(w.done)
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
	_ = w.fsWatcher.Close()
}

func (w *watcher) loop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", logging.Error(err))
		case <-ctx.Done():
			return
		case <-w.done:
			return
		}
	}
}

func (w *watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		// New directories must be watched before files land in them.
		w.addTree(event.Name)
	}

	relevant := fileutil.HasExtension(event.Name, w.extensions) ||
		event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 ||
		event.Op&fsnotify.Create != 0
	if !relevant {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.done:
			return
		case <-ctx.Done():
			return
		default:
		}
		resp := w.service.StartScan(ctx)
		w.logger.Info("library change detected, rescan requested",
			logging.String("status", resp.Status))
	})
}

// addTree registers path and every directory below it. Files and walk errors
// are skipped silently; a vanished directory just stops producing events.
func (w *watcher) addTree(root string) {
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if err := w.fsWatcher.Add(p); err != nil {
			w.logger.Debug("watch add failed",
				logging.String(logging.FieldPath, p),
				logging.Error(err))
		}
		return nil
	})
}
