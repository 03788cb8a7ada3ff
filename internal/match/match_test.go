package match_test

import (
	"errors"
	"strings"
	"testing"

	"mixcrate/internal/library"
	"mixcrate/internal/logging"
	"mixcrate/internal/match"
	"mixcrate/internal/services"
)

func track(path, folder, camelot string, bpm int) library.Track {
	t := library.NewTrack(path)
	t.Folder = folder
	t.Camelot = camelot
	if camelot != "---" {
		t.Key = "Test Key"
	}
	t.BPM = bpm
	return t
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		cand     string
		mixType  string
		priority int
		descPart string
		ok       bool
	}{
		{"perfect", "5A", "5A", match.MixPerfect, 1, "Same key", true},
		{"harmonic minor to major", "5A", "5B", match.MixHarmonic, 2, "bright/energetic", true},
		{"harmonic major to minor", "5B", "5A", match.MixHarmonic, 2, "serious/deep", true},
		{"energy up", "6A", "7A", match.MixEnergy, 3, "+1", true},
		{"energy down", "6A", "5A", match.MixEnergy, 3, "-1", true},
		{"energy up wraps", "12B", "1B", match.MixEnergy, 3, "+1", true},
		{"energy down wraps", "1A", "12A", match.MixEnergy, 3, "-1", true},
		{"diagonal is not a match", "6A", "7B", "", 0, "", false},
		{"distant is not a match", "6A", "9A", "", 0, "", false},
		{"sentinel reference", "---", "6A", "", 0, "", false},
		{"sentinel candidate", "6A", "---", "", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mixType, mixDesc, priority, ok := match.Classify(tt.ref, tt.cand)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if mixType != tt.mixType || priority != tt.priority {
				t.Fatalf("got (%q, %d), want (%q, %d)", mixType, priority, tt.mixType, tt.priority)
			}
			if tt.descPart != "" && !strings.Contains(mixDesc, tt.descPart) {
				t.Fatalf("description %q missing %q", mixDesc, tt.descPart)
			}
		})
	}
}

func TestFindMatchesRankingOrder(t *testing.T) {
	ref := track("/m/f1/ref.mp3", "/m/f1", "6A", 120)
	a := track("/m/f1/a.mp3", "/m/f1", "6A", 121)
	b := track("/m/f2/b.mp3", "/m/f2", "6A", 120)
	c := track("/m/f2/c.mp3", "/m/f2", "7A", 120)

	got := match.FindMatches(ref, []library.Track{c, b, a}, nil)
	if len(got) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(got))
	}

	// Same folder beats exact BPM; PERFECT beats ENERGY when folders tie.
	wantOrder := []string{"/m/f1/a.mp3", "/m/f2/b.mp3", "/m/f2/c.mp3"}
	for i, want := range wantOrder {
		if got[i].Track.Path != want {
			t.Fatalf("position %d: got %s, want %s", i, got[i].Track.Path, want)
		}
	}

	if got[0].SameFolderRank != 0 || got[1].SameFolderRank != 10 {
		t.Fatalf("unexpected folder ranks: %d, %d", got[0].SameFolderRank, got[1].SameFolderRank)
	}
	if got[0].BPMDiff != 1 || got[1].BPMDiff != 0 {
		t.Fatalf("unexpected bpm diffs: %d, %d", got[0].BPMDiff, got[1].BPMDiff)
	}
	if got[1].MixType != match.MixPerfect || got[2].MixType != match.MixEnergy {
		t.Fatalf("unexpected mix types: %s, %s", got[1].MixType, got[2].MixType)
	}
}

func TestFindMatchesExcludesReferenceByPath(t *testing.T) {
	ref := track("/m/ref.mp3", "/m", "8B", 128)
	pool := []library.Track{ref, track("/m/other.mp3", "/m", "8B", 128)}

	got := match.FindMatches(ref, pool, nil)
	if len(got) != 1 {
		t.Fatalf("expected self-exclusion, got %d suggestions", len(got))
	}
	if got[0].Track.Path != "/m/other.mp3" {
		t.Fatalf("unexpected suggestion %s", got[0].Track.Path)
	}
}

func TestFindMatchesSentinelReferenceYieldsNothing(t *testing.T) {
	ref := track("/m/ref.mp3", "/m", "---", 128)
	pool := []library.Track{
		track("/m/a.mp3", "/m", "8B", 128),
		track("/m/b.mp3", "/m", "1A", 90),
	}

	if got := match.FindMatches(ref, pool, nil); len(got) != 0 {
		t.Fatalf("expected zero matches for sentinel reference, got %d", len(got))
	}
}

func TestFindMatchesAllowList(t *testing.T) {
	ref := track("/m/f1/ref.mp3", "/m/f1", "8B", 128)
	pool := []library.Track{
		track("/m/f1/a.mp3", "/m/f1", "8B", 128),
		track("/m/f2/b.mp3", "/m/f2", "8B", 128),
	}

	// nil means no filter.
	if got := match.FindMatches(ref, pool, nil); len(got) != 2 {
		t.Fatalf("nil filter: expected 2, got %d", len(got))
	}

	// Explicitly empty yields zero even with compatible candidates.
	if got := match.FindMatches(ref, pool, []string{}); len(got) != 0 {
		t.Fatalf("empty filter: expected 0, got %d", len(got))
	}

	// Scoped to one folder, with forgiving case and separators.
	got := match.FindMatches(ref, pool, []string{"/M/F2/"})
	if len(got) != 1 || got[0].Track.Path != "/m/f2/b.mp3" {
		t.Fatalf("scoped filter: unexpected result %+v", got)
	}
}

func TestLookupFallbacks(t *testing.T) {
	cache := library.NewCache("", logging.NewNop())
	a := track("/m/house/anthem.mp3", "/m/house", "8B", 128)
	cache.Put(library.Entry{Fingerprint: library.Fingerprint{MTime: 1, Size: 1}, Info: a})

	if got, err := match.Lookup(cache, "/m/house/anthem.mp3", ""); err != nil || got.Path != a.Path {
		t.Fatalf("path lookup failed: %v %v", got, err)
	}
	if got, err := match.Lookup(cache, "", "anthem.mp3"); err != nil || got.Path != a.Path {
		t.Fatalf("filename lookup failed: %v %v", got, err)
	}
	if got, err := match.Lookup(cache, "", "them"); err != nil || got.Path != a.Path {
		t.Fatalf("substring lookup failed: %v %v", got, err)
	}

	_, err := match.Lookup(cache, "/nope.mp3", "nope")
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound marker, got %v", err)
	}
}

func TestResolveReferencePrefersCache(t *testing.T) {
	cache := library.NewCache("", logging.NewNop())
	cached := track("/m/a.mp3", "/m", "8B", 128)
	cache.Put(library.Entry{Fingerprint: library.Fingerprint{MTime: 1, Size: 1}, Info: cached})

	stale := track("/m/a.mp3", "/m", "3A", 90)
	if got := match.ResolveReference(cache, stale); got.Camelot != "8B" || got.BPM != 128 {
		t.Fatalf("expected cached record to win, got %+v", got)
	}

	inline := track("", "", "5A", 100)
	if got := match.ResolveReference(cache, inline); got.Camelot != "5A" {
		t.Fatalf("expected inline record for pathless track, got %+v", got)
	}

	unseen := track("/m/unseen.mp3", "/m", "5A", 100)
	if got := match.ResolveReference(cache, unseen); got.Camelot != "5A" {
		t.Fatalf("expected inline record for unseen path, got %+v", got)
	}
}
