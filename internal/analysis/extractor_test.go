package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"mixcrate/internal/library"
	"mixcrate/internal/services"
)

func TestExtractNonMP3UsesTagsAndKeepsSentinels(t *testing.T) {
	path := writeTagged(t, "track.m4a", [][2]string{
		{"TPE1", "Orbital"},
		{"TIT2", "Halcyon"},
		{"TKEY", "8B"},
	})

	extractor := New(Options{})
	track, err := extractor.Extract(context.Background(), path, true)
	if err != nil {
		t.Fatal(err)
	}

	if track.Artist != "Orbital" || track.Title != "Halcyon" {
		t.Fatalf("unexpected artist/title: %q / %q", track.Artist, track.Title)
	}
	if track.Key != "C Major" || track.Camelot != "8B" {
		t.Fatalf("tag key not applied: %q / %q", track.Key, track.Camelot)
	}
	if !track.GainIncomplete() {
		t.Fatalf("non-mp3 loudness should stay at the sentinel, got %f", track.LoudnessDBFS)
	}
	if track.Duration != 0 || track.BPM != 0 {
		t.Fatalf("expected zero duration and BPM, got %f / %d", track.Duration, track.BPM)
	}
}

func TestExtractFallsBackToFilename(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daft_punk - around_the_world.wav")
	if err := os.WriteFile(path, []byte("RIFFxxxx"), 0o644); err != nil {
		t.Fatal(err)
	}

	track, err := New(Options{}).Extract(context.Background(), path, false)
	if err != nil {
		t.Fatal(err)
	}
	if track.Artist != "Daft Punk" || track.Title != "Around The World" {
		t.Fatalf("filename inference failed: %q / %q", track.Artist, track.Title)
	}
	if track.Album != library.TagUnknown {
		t.Fatalf("album should default, got %q", track.Album)
	}
	if track.Camelot != "---" || track.Key != "Unknown" {
		t.Fatalf("key sentinels expected, got %q / %q", track.Key, track.Camelot)
	}
}

func TestExtractUndecodableMP3IsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.mp3")
	if err := os.WriteFile(path, []byte("definitely not mpeg frames"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New(Options{}).Extract(context.Background(), path, false)
	if err == nil {
		t.Fatal("expected an error for an undecodable mp3")
	}
	if services.Kind(err) != "validation" {
		t.Fatalf("unexpected error kind %q: %v", services.Kind(err), err)
	}
}

func TestExtractHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	track, err := New(Options{}).Extract(ctx, "/nowhere.mp3", true)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if track.Camelot != "---" {
		t.Fatalf("cancelled extraction should return a sentinel record, got %+v", track)
	}
}

func TestNewDefaults(t *testing.T) {
	e := New(Options{WindowSeconds: -1, MinBPM: 0, MaxBPM: 0})
	if e.windowSeconds != defaultWindowSeconds || e.minBPM != defaultMinBPM || e.maxBPM != defaultMaxBPM {
		t.Fatalf("defaults not applied: %d / %d / %d", e.windowSeconds, e.minBPM, e.maxBPM)
	}
}
