package library_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"mixcrate/internal/library"
	"mixcrate/internal/logging"
	"mixcrate/internal/testsupport"
)

func newTestScanner(t *testing.T, extractor library.Extractor) (*library.Scanner, *library.Cache) {
	t.Helper()
	cache := library.NewCache(filepath.Join(t.TempDir(), "cache.json"), logging.NewNop())
	scanner := library.NewScanner(cache, extractor, logging.NewNop(), library.ScannerOptions{
		Extensions:    []string{".mp3"},
		Workers:       2,
		SaveBatchSize: 2,
	})
	return scanner, cache
}

func TestScanAnalyzesNewFilesOnce(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "a.mp3"), 100)
	testsupport.WriteFile(t, filepath.Join(root, "sub", "b.mp3"), 200)
	testsupport.WriteFile(t, filepath.Join(root, "cover.jpg"), 50)

	extractor := testsupport.NewStubExtractor()
	scanner, _ := newTestScanner(t, extractor)

	tracks, err := scanner.Scan(context.Background(), []string{root}, true, nil)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if extractor.TotalCalls() != 2 {
		t.Fatalf("expected 2 extractions, got %d", extractor.TotalCalls())
	}

	// Fingerprint idempotence: the second pass re-extracts nothing.
	if _, err := scanner.Scan(context.Background(), []string{root}, true, nil); err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if extractor.TotalCalls() != 2 {
		t.Fatalf("expected zero re-extractions, got %d total calls", extractor.TotalCalls())
	}
}

func TestScanStalenessTriggersReanalysis(t *testing.T) {
	root := t.TempDir()
	changed := filepath.Join(root, "changed.mp3")
	stable := filepath.Join(root, "stable.mp3")
	testsupport.WriteFile(t, changed, 100)
	testsupport.WriteFile(t, stable, 100)

	extractor := testsupport.NewStubExtractor()
	scanner, _ := newTestScanner(t, extractor)

	if _, err := scanner.Scan(context.Background(), []string{root}, true, nil); err != nil {
		t.Fatal(err)
	}

	testsupport.Touch(t, changed)

	if _, err := scanner.Scan(context.Background(), []string{root}, true, nil); err != nil {
		t.Fatal(err)
	}

	changedKey := mustNormalize(t, changed)
	stableKey := mustNormalize(t, stable)
	if got := extractor.Calls(changedKey); got != 2 {
		t.Fatalf("expected touched file to be re-extracted, got %d calls", got)
	}
	if got := extractor.Calls(stableKey); got != 1 {
		t.Fatalf("expected unchanged file to be reused, got %d calls", got)
	}
}

func TestScanGainIncompleteRetry(t *testing.T) {
	root := t.TempDir()
	track := filepath.Join(root, "a.mp3")
	testsupport.WriteFile(t, track, 100)

	extractor := testsupport.NewStubExtractor()
	scanner, _ := newTestScanner(t, extractor)
	key := mustNormalize(t, track)

	// Metadata-only scan leaves the record gain-incomplete.
	if _, err := scanner.Scan(context.Background(), []string{root}, false, nil); err != nil {
		t.Fatal(err)
	}
	if got := extractor.Calls(key); got != 1 {
		t.Fatalf("expected 1 extraction, got %d", got)
	}

	// Another metadata-only scan must not retry an unchanged file.
	if _, err := scanner.Scan(context.Background(), []string{root}, false, nil); err != nil {
		t.Fatal(err)
	}
	if got := extractor.Calls(key); got != 1 {
		t.Fatalf("metadata-only scan retried gain-incomplete entry: %d calls", got)
	}

	// A loudness scan re-extracts despite the unchanged fingerprint.
	if _, err := scanner.Scan(context.Background(), []string{root}, true, nil); err != nil {
		t.Fatal(err)
	}
	if got := extractor.Calls(key); got != 2 {
		t.Fatalf("expected loudness scan to retry, got %d calls", got)
	}

	// Now complete; further loudness scans reuse the entry.
	if _, err := scanner.Scan(context.Background(), []string{root}, true, nil); err != nil {
		t.Fatal(err)
	}
	if got := extractor.Calls(key); got != 2 {
		t.Fatalf("expected complete entry to be reused, got %d calls", got)
	}
}

func TestScanDeduplicatesOverlappingRoots(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	testsupport.WriteFile(t, filepath.Join(sub, "a.mp3"), 100)

	extractor := testsupport.NewStubExtractor()
	scanner, _ := newTestScanner(t, extractor)

	tracks, err := scanner.Scan(context.Background(), []string{root, sub}, true, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 1 {
		t.Fatalf("expected 1 track from overlapping roots, got %d", len(tracks))
	}
	if extractor.TotalCalls() != 1 {
		t.Fatalf("expected 1 extraction, got %d", extractor.TotalCalls())
	}
}

func TestScanExtractionFailureDegradesToSentinels(t *testing.T) {
	root := t.TempDir()
	bad := filepath.Join(root, "bad.mp3")
	good := filepath.Join(root, "good.mp3")
	testsupport.WriteFile(t, bad, 100)
	testsupport.WriteFile(t, good, 100)

	extractor := testsupport.NewStubExtractor()
	badKey := mustNormalize(t, bad)
	extractor.FailPaths = map[string]struct{}{badKey: {}}

	scanner, cache := newTestScanner(t, extractor)

	tracks, err := scanner.Scan(context.Background(), []string{root}, true, nil)
	if err != nil {
		t.Fatalf("scan must tolerate single-file failures: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected both tracks in output, got %d", len(tracks))
	}

	entry, found := cache.Lookup(badKey)
	if !found {
		t.Fatal("expected failed file to be cached with sentinel values")
	}
	if !entry.Info.GainIncomplete() {
		t.Fatal("expected failed record to stay gain-incomplete")
	}
	if entry.Info.HasKey() {
		t.Fatalf("expected key sentinel, got %q", entry.Info.Camelot)
	}

	// Metadata-only rescans must not retry the unfixable file.
	if _, err := scanner.Scan(context.Background(), []string{root}, false, nil); err != nil {
		t.Fatal(err)
	}
	if got := extractor.Calls(badKey); got != 1 {
		t.Fatalf("expected no metadata-only retry, got %d calls", got)
	}

	// A loudness scan retries it because the record is gain-incomplete.
	if _, err := scanner.Scan(context.Background(), []string{root}, true, nil); err != nil {
		t.Fatal(err)
	}
	if got := extractor.Calls(badKey); got != 2 {
		t.Fatalf("expected loudness retry, got %d calls", got)
	}
}

func TestScanProgressCallbackPerAnalyzedFile(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "a.mp3"), 100)
	testsupport.WriteFile(t, filepath.Join(root, "b.mp3"), 100)

	extractor := testsupport.NewStubExtractor()
	scanner, _ := newTestScanner(t, extractor)

	var mu sync.Mutex
	seen := make(map[string]int)
	progress := func(p string) {
		mu.Lock()
		seen[p]++
		mu.Unlock()
	}

	if _, err := scanner.Scan(context.Background(), []string{root}, true, progress); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 {
		t.Fatalf("expected progress for 2 files, got %v", seen)
	}

	// Reused entries do not report progress.
	if _, err := scanner.Scan(context.Background(), []string{root}, true, progress); err != nil {
		t.Fatal(err)
	}
	for p, n := range seen {
		if n != 1 {
			t.Fatalf("expected one callback for %s, got %d", p, n)
		}
	}
}

func TestScanPersistsCacheAcrossInstances(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "a.mp3"), 100)

	cachePath := filepath.Join(t.TempDir(), "cache.json")
	extractor := testsupport.NewStubExtractor()

	cache := library.NewCache(cachePath, logging.NewNop())
	scanner := library.NewScanner(cache, extractor, logging.NewNop(), library.ScannerOptions{Extensions: []string{".mp3"}})
	if _, err := scanner.Scan(context.Background(), []string{root}, true, nil); err != nil {
		t.Fatal(err)
	}

	// A fresh process sees the persisted entries and reuses them.
	cache2 := library.NewCache(cachePath, logging.NewNop())
	scanner2 := library.NewScanner(cache2, extractor, logging.NewNop(), library.ScannerOptions{Extensions: []string{".mp3"}})
	if _, err := scanner2.Scan(context.Background(), []string{root}, true, nil); err != nil {
		t.Fatal(err)
	}
	if extractor.TotalCalls() != 1 {
		t.Fatalf("expected persisted cache to prevent re-extraction, got %d calls", extractor.TotalCalls())
	}
}

func mustNormalize(t *testing.T, p string) string {
	t.Helper()
	abs, err := filepath.Abs(p)
	if err != nil {
		t.Fatal(err)
	}
	return filepath.ToSlash(abs)
}
