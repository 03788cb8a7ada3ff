package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"mixcrate/internal/api"
	"mixcrate/internal/config"
	"mixcrate/internal/library"
	"mixcrate/internal/logging"
	"mixcrate/internal/notifications"
	"mixcrate/internal/playlist"
)

// Daemon owns the long-running services: the HTTP API, the background scan
// slot, and the optional library watcher. It enforces single-instance
// execution through a file lock.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	cache     *library.Cache
	runner    *library.Runner
	playlists *playlist.Store
	service   *api.LibraryService
	notifier  notifications.Service

	lockPath string
	lock     *flock.Flock

	apiServer *apiServer
	watcher   *watcher

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, cache *library.Cache, runner *library.Runner, playlists *playlist.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || cache == nil || runner == nil || playlists == nil {
		return nil, errors.New("daemon requires config, cache, runner, and playlist store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := cfg.LockFilePath()
	d := &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		cache:     cache,
		runner:    runner,
		playlists: playlists,
		service:   api.NewLibraryService(cache, runner, cfg.Library.Roots, cfg.Scanner.AnalyzeLoudness),
		notifier:  notifications.NewService(cfg),
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}
	runner.SetCompletionFunc(d.scanFinished)

	srv, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.apiServer = srv
	return d, nil
}

// Start acquires the instance lock and brings up the API server and the
// watcher. It returns once everything is listening; Stop shuts it down.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another mixcrated instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	if err := d.apiServer.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx, d.cancel = nil, nil
		return err
	}

	if d.cfg.Library.Watch {
		w, err := newWatcher(d.cfg, d.service, d.logger)
		if err != nil {
			d.logger.Warn("library watcher unavailable",
				logging.Error(err),
				logging.String(logging.FieldImpact, "changes require a manual scan"))
		} else {
			d.watcher = w
			d.watcher.start(d.ctx)
		}
	}

	d.running.Store(true)
	d.logger.Info("mixcrated started",
		logging.String("lock", d.lockPath),
		logging.String("bind", d.cfg.Paths.APIBind))
	return nil
}

// Stop shuts down background services and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.watcher != nil {
		d.watcher.stop()
		d.watcher = nil
	}
	d.apiServer.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("mixcrated stopped")
}

// Close stops the daemon and persists the cache a final time.
func (d *Daemon) Close() error {
	d.Stop()
	if err := d.cache.Save(); err != nil {
		d.logger.Warn("final cache save failed", logging.Error(err))
	}
	return d.playlists.Close()
}

// scanFinished reports background scan outcomes to the configured notifier.
// Delivery failures are logged; they never affect the scan itself.
func (d *Daemon) scanFinished(tracks int, duration time.Duration, scanErr error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	if scanErr != nil {
		err = d.notifier.NotifyScanFailed(ctx, scanErr)
	} else {
		err = d.notifier.NotifyScanCompleted(ctx, tracks, duration)
	}
	if err != nil {
		d.logger.Warn("scan notification failed", logging.Error(err))
	}
}

// Addr returns the API listener address, or empty before Start.
func (d *Daemon) Addr() string {
	return d.apiServer.addr()
}
