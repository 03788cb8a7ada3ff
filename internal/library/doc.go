// Package library implements the incremental analysis cache and the scanner
// that keeps it current.
//
// The Cache is a JSON file mapping normalized absolute paths to a feature
// record plus the (mtime, size) fingerprint the file had at analysis time. The
// Scanner walks the configured roots, reuses fresh cache entries, and invokes
// the feature extractor only for new, changed, or gain-incomplete files. The
// Runner adds the single-slot background execution and status polling the
// daemon exposes.
//
// # Storage
//
// The cache is stored as human-readable JSON at a configurable path (default:
// ~/.local/share/mixcrate/analysis_cache.json). A missing or corrupt file is
// treated as an empty cache; save failures are logged and retried on the next
// batch, so an interrupted scan keeps whatever progress was already flushed.
package library
