package library_test

import (
	"os"
	"path/filepath"
	"testing"

	"mixcrate/internal/library"
	"mixcrate/internal/logging"
)

func testEntry(path, camelot string) library.Entry {
	track := library.NewTrack(path)
	if camelot != "" {
		track.Camelot = camelot
		track.Key = "C Major"
	}
	return library.Entry{
		Fingerprint: library.Fingerprint{MTime: 1000, Size: 2048},
		Info:        track,
	}
}

func TestCacheSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	cache := library.NewCache(path, logging.NewNop())
	cache.Put(testEntry("/music/house/a.mp3", "8B"))
	cache.Put(testEntry("/music/techno/b.mp3", ""))
	if err := cache.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded := library.NewCache(path, logging.NewNop())
	if reloaded.Count() != 2 {
		t.Fatalf("expected 2 entries, got %d", reloaded.Count())
	}

	entry, found := reloaded.Lookup("/music/house/a.mp3")
	if !found {
		t.Fatal("expected entry after reload")
	}
	if entry.Info.Camelot != "8B" {
		t.Fatalf("unexpected camelot: %q", entry.Info.Camelot)
	}
	if !entry.Fresh(library.Fingerprint{MTime: 1000, Size: 2048}) {
		t.Fatal("expected fingerprint to survive roundtrip")
	}
	if entry.Fresh(library.Fingerprint{MTime: 1001, Size: 2048}) {
		t.Fatal("expected changed mtime to mark entry stale")
	}
}

func TestCacheMissingFileIsColdStart(t *testing.T) {
	cache := library.NewCache(filepath.Join(t.TempDir(), "absent.json"), logging.NewNop())
	if cache.Count() != 0 {
		t.Fatalf("expected empty cache, got %d entries", cache.Count())
	}
}

func TestCacheCorruptFileIsColdStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	cache := library.NewCache(path, logging.NewNop())
	if cache.Count() != 0 {
		t.Fatalf("expected empty cache for corrupt file, got %d entries", cache.Count())
	}

	// A save after cold start repairs persistence.
	cache.Put(testEntry("/music/a.mp3", "5A"))
	if err := cache.Save(); err != nil {
		t.Fatalf("save after corrupt load: %v", err)
	}
	if reloaded := library.NewCache(path, logging.NewNop()); reloaded.Count() != 1 {
		t.Fatal("expected repaired cache file")
	}
}

func TestCacheLibraryFiltersUnkeyedTracks(t *testing.T) {
	cache := library.NewCache("", logging.NewNop())
	cache.Put(testEntry("/music/a.mp3", "8B"))
	cache.Put(testEntry("/music/b.mp3", ""))

	lib := cache.Library()
	if len(lib) != 1 || lib[0].Path != "/music/a.mp3" {
		t.Fatalf("unexpected library view: %+v", lib)
	}

	if all := cache.Tracks(); len(all) != 2 {
		t.Fatalf("expected Tracks to include unkeyed records, got %d", len(all))
	}
}

func TestCacheFoldersProjection(t *testing.T) {
	cache := library.NewCache("", logging.NewNop())
	cache.Put(testEntry("/music/house/a.mp3", "8B"))
	cache.Put(testEntry("/music/house/b.mp3", ""))
	cache.Put(testEntry("/music/techno/c.mp3", "3A"))

	folders := cache.Folders()
	want := []string{"/music/house", "/music/techno"}
	if len(folders) != len(want) {
		t.Fatalf("folders = %v, want %v", folders, want)
	}
	for i := range want {
		if folders[i] != want[i] {
			t.Fatalf("folders = %v, want %v", folders, want)
		}
	}
}
