package library

import (
	"context"
	"log/slog"
	"path"
	"sync"
	"time"

	"mixcrate/internal/fileutil"
	"mixcrate/internal/logging"
)

// ScanStatus is the polling snapshot for a background scan.
type ScanStatus struct {
	Scanning      bool      `json:"scanning"`
	CurrentFolder string    `json:"current_folder"`
	CurrentFile   string    `json:"current_file"`
	LastScan      time.Time `json:"last_scan"`
}

// CompletionFunc receives the outcome of a finished background scan. tracks
// is the library size after the scan; err is nil on success.
type CompletionFunc func(tracks int, duration time.Duration, err error)

// Runner owns the single background scan slot. A second start request while a
// scan is in flight is rejected as an idempotent no-op, never queued.
type Runner struct {
	scanner    *Scanner
	logger     *slog.Logger
	onComplete CompletionFunc

	mu     sync.Mutex
	status ScanStatus
}

// NewRunner wraps a scanner with background execution and status polling.
func NewRunner(scanner *Scanner, logger *slog.Logger) *Runner {
	return &Runner{
		scanner: scanner,
		logger:  logging.NewComponentLogger(logger, "scan-runner"),
	}
}

// SetCompletionFunc registers a callback invoked after every background scan
// finishes. It must be called before the first Start.
func (r *Runner) SetCompletionFunc(fn CompletionFunc) {
	r.onComplete = fn
}

// Start launches a background scan over the roots. It returns false without
// side effects when a scan is already running.
func (r *Runner) Start(ctx context.Context, roots []string, wantLoudness bool) bool {
	r.mu.Lock()
	if r.status.Scanning {
		r.mu.Unlock()
		return false
	}
	r.status.Scanning = true
	r.status.CurrentFolder = ""
	r.status.CurrentFile = ""
	r.mu.Unlock()

	go r.run(ctx, roots, wantLoudness)
	return true
}

// Status returns a copy of the current scan status.
func (r *Runner) Status() ScanStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Runner) run(ctx context.Context, roots []string, wantLoudness bool) {
	progress := func(p string) {
		r.mu.Lock()
		r.status.CurrentFolder = fileutil.FolderOf(p)
		r.status.CurrentFile = path.Base(p)
		r.mu.Unlock()
	}

	started := time.Now()
	tracks, err := r.scanner.Scan(ctx, roots, wantLoudness, progress)
	if err != nil {
		// Batch saves already persisted partial progress.
		r.logger.Warn("background scan aborted", logging.Error(err))
	}

	if r.onComplete != nil {
		r.onComplete(len(tracks), time.Since(started), err)
	}

	r.mu.Lock()
	r.status.Scanning = false
	r.status.CurrentFolder = ""
	r.status.CurrentFile = ""
	if err == nil {
		r.status.LastScan = time.Now().UTC()
	}
	r.mu.Unlock()
}
