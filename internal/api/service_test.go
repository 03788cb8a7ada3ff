package api_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"mixcrate/internal/api"
	"mixcrate/internal/library"
	"mixcrate/internal/logging"
	"mixcrate/internal/services"
	"mixcrate/internal/testsupport"
)

func seededService(t *testing.T) (*api.LibraryService, *library.Cache) {
	t.Helper()

	cache := library.NewCache(filepath.Join(t.TempDir(), "cache.json"), logging.NewNop())
	for _, spec := range []struct {
		path    string
		camelot string
		key     string
		bpm     int
	}{
		{"/m/house/a.mp3", "8B", "C Major", 128},
		{"/m/house/b.mp3", "8A", "A Minor", 126},
		{"/m/techno/c.mp3", "9B", "G Major", 132},
		{"/m/techno/unkeyed.mp3", "---", "Unknown", 0},
	} {
		track := library.NewTrack(spec.path)
		track.Camelot = spec.camelot
		track.Key = spec.key
		track.BPM = spec.bpm
		cache.Put(library.Entry{Fingerprint: library.Fingerprint{MTime: 1, Size: 1}, Info: track})
	}

	scanner := library.NewScanner(cache, testsupport.NewStubExtractor(), logging.NewNop(), library.ScannerOptions{})
	runner := library.NewRunner(scanner, logging.NewNop())
	return api.NewLibraryService(cache, runner, []string{t.TempDir()}, false), cache
}

func TestLibraryExcludesUnkeyedTracks(t *testing.T) {
	svc, _ := seededService(t)

	tracks := svc.Library()
	if len(tracks) != 3 {
		t.Fatalf("expected 3 keyed tracks, got %d", len(tracks))
	}
	for _, track := range tracks {
		if !track.HasKey() {
			t.Fatalf("unkeyed track leaked into library view: %+v", track)
		}
	}
}

func TestFolders(t *testing.T) {
	svc, _ := seededService(t)

	folders := svc.Folders()
	if len(folders) != 2 || folders[0] != "/m/house" || folders[1] != "/m/techno" {
		t.Fatalf("unexpected folders: %v", folders)
	}
}

func TestTrackInfo(t *testing.T) {
	svc, _ := seededService(t)

	resp, err := svc.TrackInfo("", "a.mp3", nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Track.Path != "/m/house/a.mp3" || resp.Source != "library_cache" {
		t.Fatalf("unexpected resolution: %+v", resp)
	}
	// 8B is compatible with 8A (relative) and 9B (energy up).
	if len(resp.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(resp.Suggestions))
	}
	if resp.Suggestions[0].Track.Path != "/m/house/b.mp3" {
		t.Fatalf("same-folder match should rank first: %+v", resp.Suggestions[0])
	}

	if _, err := svc.TrackInfo("", "missing.mp3", nil); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMixSuggestionsResolvesAgainstCache(t *testing.T) {
	svc, _ := seededService(t)

	// Stale caller copy of a cached track: the cached record must win.
	stale := library.NewTrack("/m/house/a.mp3")
	stale.Camelot = "3A"
	stale.BPM = 80

	resp, err := svc.MixSuggestions(api.MixSuggestionsRequest{Track: &stale})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Track.Camelot != "8B" || resp.Track.BPM != 128 {
		t.Fatalf("reference not re-resolved: %+v", resp.Track)
	}

	if _, err := svc.MixSuggestions(api.MixSuggestionsRequest{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("missing track should be a validation error, got %v", err)
	}
}

func TestMixSuggestionsEmptyAllowList(t *testing.T) {
	svc, cache := seededService(t)

	entry, _ := cache.Lookup("/m/house/a.mp3")
	ref := entry.Info

	resp, err := svc.MixSuggestions(api.MixSuggestionsRequest{Track: &ref, AllowedFolders: []string{}})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Suggestions == nil {
		t.Fatal("suggestions must be an empty slice, not nil")
	}
	if len(resp.Suggestions) != 0 {
		t.Fatalf("explicit empty allow-list should yield nothing, got %d", len(resp.Suggestions))
	}
}

func TestStartScanIdempotent(t *testing.T) {
	svc, _ := seededService(t)

	first := svc.StartScan(context.Background())
	if first.Status != api.ScanStarted {
		t.Fatalf("first start: got %q", first.Status)
	}

	// The scan over an empty temp dir finishes quickly; poll rather than
	// assert the racy already_scanning path.
	deadline := time.Now().Add(2 * time.Second)
	for svc.ScanStatus().Scanning {
		if time.Now().After(deadline) {
			t.Fatal("scan did not finish")
		}
		time.Sleep(5 * time.Millisecond)
	}

	second := svc.StartScan(context.Background())
	if second.Status != api.ScanStarted {
		t.Fatalf("restart after completion: got %q", second.Status)
	}
	for svc.ScanStatus().Scanning {
		if time.Now().After(deadline) {
			t.Fatal("scan did not finish")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if svc.ScanStatus().LastScan.IsZero() {
		t.Fatal("last scan timestamp not recorded")
	}
}
