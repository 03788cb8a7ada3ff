package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"mixcrate/internal/logging"
)

// Cache provides thread-safe access to the persisted analysis results. It is
// loaded wholesale at construction and written wholesale by Save; between
// saves it acts as an in-memory snapshot keyed by normalized absolute path.
type Cache struct {
	path    string
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewCache creates a cache instance backed by the given file. A missing or
// corrupt file is treated as an empty cache (cold start) and logged, never
// surfaced as an error; the next successful Save repairs persistence.
func NewCache(path string, logger *slog.Logger) *Cache {
	logger = logging.NewComponentLogger(logger, "cache")

	c := &Cache{
		path:    path,
		logger:  logger,
		entries: make(map[string]Entry),
	}

	if path == "" {
		return c
	}

	if err := c.load(); err != nil {
		logger.Warn("failed to load analysis cache",
			logging.String(logging.FieldEventType, "cache_load_failed"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "cache will start empty"),
			logging.String(logging.FieldImpact, "all tracks will be re-analyzed on the next scan"))
	}

	return c
}

// Lookup returns the cache entry for the given normalized path if present.
func (c *Cache) Lookup(path string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[path]
	return entry, found
}

// Put adds or replaces an entry in memory. Entries are superseded wholesale,
// never merged. Call Save to persist.
func (c *Cache) Put(entry Entry) {
	if entry.Info.Path == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[entry.Info.Path] = entry
}

// Remove deletes an entry by path. Call Save to persist.
func (c *Cache) Remove(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, path)
}

// Count returns the number of cached entries.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Tracks returns every cached feature record sorted by path.
func (c *Cache) Tracks() []Track {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tracks := make([]Track, 0, len(c.entries))
	for _, entry := range c.entries {
		tracks = append(tracks, entry.Info)
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].Path < tracks[j].Path })
	return tracks
}

// Library returns the matchable view of the cache: tracks whose key analysis
// produced a valid Camelot code, sorted by path.
func (c *Cache) Library() []Track {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tracks := make([]Track, 0, len(c.entries))
	for _, entry := range c.entries {
		if entry.Info.HasKey() {
			tracks = append(tracks, entry.Info)
		}
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].Path < tracks[j].Path })
	return tracks
}

// Folders projects the distinct analyzed folders out of the cache, sorted.
// No filesystem access is involved.
func (c *Cache) Folders() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, entry := range c.entries {
		folder := entry.Info.Folder
		if folder == "" {
			continue
		}
		seen[folder] = struct{}{}
	}

	folders := make([]string, 0, len(seen))
	for folder := range seen {
		folders = append(folders, folder)
	}
	sort.Strings(folders)
	return folders
}

// Save writes the cache to disk atomically. Callers treat failures as
// non-fatal: the in-memory state stays authoritative and the next Save
// retries the whole snapshot.
func (c *Cache) Save() error {
	if c.path == "" {
		return nil
	}

	c.mu.RLock()
	data, err := json.MarshalIndent(c.entries, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // fresh start
		}
		return fmt.Errorf("read cache file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	c.entries = make(map[string]Entry, len(entries))
	for path, entry := range entries {
		if path == "" {
			continue
		}
		if entry.Info.Path == "" {
			entry.Info.Path = path
		}
		c.entries[path] = entry
	}

	c.logger.Debug("loaded analysis cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))

	return nil
}
