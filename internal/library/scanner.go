package library

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"mixcrate/internal/fileutil"
	"mixcrate/internal/logging"
)

// Extractor produces the feature record for a single audio file. When
// wantLoudness is false the implementation may skip the expensive decode pass
// and leave loudness, key, and BPM at their sentinels.
type Extractor interface {
	Extract(ctx context.Context, path string, wantLoudness bool) (Track, error)
}

// ProgressFunc is invoked once per file immediately before analysis. It
// exists for observability only and has no effect on scan results.
type ProgressFunc func(path string)

// ScannerOptions bundles scanner tunables.
type ScannerOptions struct {
	Extensions    []string
	Workers       int
	SaveBatchSize int
}

// Scanner walks library roots and keeps the cache current while re-analyzing
// as little as possible. Feature extraction dominates scan cost; the
// fingerprint check turns a full rescan into an O(changed files) operation.
type Scanner struct {
	cache      *Cache
	extractor  Extractor
	logger     *slog.Logger
	extensions map[string]struct{}
	workers    int
	batchSize  int
}

// NewScanner constructs a scanner over the given cache and extractor.
func NewScanner(cache *Cache, extractor Extractor, logger *slog.Logger, opts ScannerOptions) *Scanner {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	batchSize := opts.SaveBatchSize
	if batchSize < 1 {
		batchSize = 25
	}
	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = []string{".mp3", ".wav", ".flac", ".ogg", ".m4a", ".aac"}
	}

	return &Scanner{
		cache:      cache,
		extractor:  extractor,
		logger:     logging.NewComponentLogger(logger, "scanner"),
		extensions: fileutil.ExtensionSet(extensions),
		workers:    workers,
		batchSize:  batchSize,
	}
}

// Scan produces the current feature record for every audio file under the
// roots. Cached entries are reused when the file's fingerprint is unchanged
// and, if wantLoudness is set, the entry is not gain-incomplete; everything
// else is (re-)extracted. The cache is persisted in batches; persistence
// failures are logged, not propagated. A single file's extraction failure
// degrades that file to sentinel values and never aborts the scan.
func (s *Scanner) Scan(ctx context.Context, roots []string, wantLoudness bool, progress ProgressFunc) ([]Track, error) {
	candidates := s.discover(roots)

	var reusable []Track
	var pending []candidate

	for _, cand := range candidates {
		entry, found := s.cache.Lookup(cand.path)
		if found && entry.Fresh(cand.fingerprint) && (!wantLoudness || !entry.Info.GainIncomplete()) {
			reusable = append(reusable, entry.Info)
			continue
		}
		pending = append(pending, cand)
	}

	analyzed, err := s.analyze(ctx, pending, wantLoudness, progress)
	if err != nil {
		return nil, err
	}

	results := append(reusable, analyzed...)
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	s.logger.Info("scan complete",
		logging.Int("total", len(results)),
		logging.Int("reused", len(reusable)),
		logging.Int("analyzed", len(analyzed)),
		logging.Bool("loudness", wantLoudness))

	return results, nil
}

type candidate struct {
	path        string
	fingerprint Fingerprint
}

// discover enumerates audio files under the roots, deduplicated by normalized
// absolute path so overlapping roots contribute each file once.
func (s *Scanner) discover(roots []string) []candidate {
	seen := make(map[string]struct{})
	var candidates []candidate

	for _, root := range roots {
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				s.logger.Warn("walk error", logging.String(logging.FieldPath, p), logging.Error(err))
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if !fileutil.HasExtension(p, s.extensions) {
				return nil
			}

			normalized, err := fileutil.NormalizePath(p)
			if err != nil {
				s.logger.Warn("path normalization failed", logging.String(logging.FieldPath, p), logging.Error(err))
				return nil
			}
			if _, dup := seen[normalized]; dup {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				info2, statErr := os.Stat(p)
				if statErr != nil {
					s.logger.Warn("stat failed", logging.String(logging.FieldPath, p), logging.Error(statErr))
					return nil
				}
				info = info2
			}

			seen[normalized] = struct{}{}
			candidates = append(candidates, candidate{
				path: normalized,
				fingerprint: Fingerprint{
					MTime: info.ModTime().UnixNano(),
					Size:  info.Size(),
				},
			})
			return nil
		})
		if err != nil {
			s.logger.Warn("walk root failed", logging.String(logging.FieldFolder, root), logging.Error(err))
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].path < candidates[j].path })
	return candidates
}

// analyze runs feature extraction for the pending files across a bounded
// worker pool. Cache writes are serialized through the collector so batch
// saves observe a consistent snapshot; per-path results are independent, so
// last-writer-wins ordering is acceptable.
func (s *Scanner) analyze(ctx context.Context, pending []candidate, wantLoudness bool, progress ProgressFunc) ([]Track, error) {
	if len(pending) == 0 {
		return nil, nil
	}

	jobs := make(chan candidate)
	results := make(chan Entry)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cand := range jobs {
				if progress != nil {
					progress(cand.path)
				}
				results <- s.extractOne(ctx, cand, wantLoudness)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, cand := range pending {
			select {
			case jobs <- cand:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	analyzed := make([]Track, 0, len(pending))
	sinceSave := 0
	for entry := range results {
		s.cache.Put(entry)
		analyzed = append(analyzed, entry.Info)

		sinceSave++
		if sinceSave >= s.batchSize {
			s.saveBatch()
			sinceSave = 0
		}
	}

	if sinceSave > 0 {
		s.saveBatch()
	}

	if err := ctx.Err(); err != nil {
		// Partial progress is already persisted by the batch saves.
		return nil, err
	}

	return analyzed, nil
}

func (s *Scanner) extractOne(ctx context.Context, cand candidate, wantLoudness bool) Entry {
	track, err := s.extractor.Extract(ctx, cand.path, wantLoudness)
	if err != nil {
		s.logger.Warn("extraction failed; recording sentinel values",
			logging.String(logging.FieldPath, cand.path),
			logging.Error(err))
		track = NewTrack(cand.path)
	}

	// The extractor may not know the normalized identity of the file.
	track.Path = cand.path
	if track.Filename == "" {
		track.Filename = filepath.Base(cand.path)
	}
	if track.Folder == "" {
		track.Folder = fileutil.FolderOf(cand.path)
	}

	return Entry{Fingerprint: cand.fingerprint, Info: track}
}

func (s *Scanner) saveBatch() {
	if err := s.cache.Save(); err != nil {
		s.logger.Warn("cache save failed",
			logging.String(logging.FieldEventType, "cache_save_failed"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "next successful save repairs persistence"))
	}
}
