package api

import (
	"context"

	"mixcrate/internal/library"
	"mixcrate/internal/match"
	"mixcrate/internal/services"
)

// LibraryService exposes the matchable library view and scan control to
// transport layers. It owns no state beyond references to the cache and the
// scan runner.
type LibraryService struct {
	cache        *library.Cache
	runner       *library.Runner
	roots        []string
	wantLoudness bool
}

// NewLibraryService constructs the service. roots and wantLoudness configure
// what a scan start request covers.
func NewLibraryService(cache *library.Cache, runner *library.Runner, roots []string, wantLoudness bool) *LibraryService {
	return &LibraryService{
		cache:        cache,
		runner:       runner,
		roots:        roots,
		wantLoudness: wantLoudness,
	}
}

// Library returns every track with a usable Camelot code, sorted by path.
func (s *LibraryService) Library() []library.Track {
	return s.cache.Library()
}

// Folders returns the distinct folders of all analyzed tracks, sorted.
func (s *LibraryService) Folders() []string {
	return s.cache.Folders()
}

// StartScan requests a background scan over the configured roots. Callers
// should check HasRoots first; starting with zero roots is a no-op scan.
func (s *LibraryService) StartScan(ctx context.Context) ScanResponse {
	if !s.runner.Start(ctx, s.roots, s.wantLoudness) {
		status := s.runner.Status()
		return ScanResponse{Status: ScanAlreadyScanning, Info: &status}
	}
	return ScanResponse{Status: ScanStarted}
}

// HasRoots reports whether any library roots are configured.
func (s *LibraryService) HasRoots() bool {
	return len(s.roots) > 0
}

// ScanStatus returns the current scan snapshot.
func (s *LibraryService) ScanStatus() library.ScanStatus {
	return s.runner.Status()
}

// TrackInfo resolves a track by path or filename and ranks its matches.
func (s *LibraryService) TrackInfo(path, filename string, allowedFolders []string) (TrackInfoResponse, error) {
	track, err := match.Lookup(s.cache, path, filename)
	if err != nil {
		return TrackInfoResponse{}, err
	}

	return TrackInfoResponse{
		Track:       track,
		Suggestions: suggestionsFor(s.cache, track, allowedFolders),
		Source:      "library_cache",
	}, nil
}

// MixSuggestions ranks matches for a caller-supplied reference. Tracks whose
// path is known to the cache are re-resolved so matching never runs on stale
// data.
func (s *LibraryService) MixSuggestions(req MixSuggestionsRequest) (MixSuggestionsResponse, error) {
	if req.Track == nil {
		return MixSuggestionsResponse{}, services.Wrap(services.ErrValidation, "api", "mix_suggestions", "no track provided", nil)
	}

	track := match.ResolveReference(s.cache, *req.Track)
	return MixSuggestionsResponse{
		Track:       track,
		Suggestions: suggestionsFor(s.cache, track, req.AllowedFolders),
	}, nil
}

// suggestionsFor always returns a non-nil slice so JSON responses carry [] in
// place of null.
func suggestionsFor(cache *library.Cache, track library.Track, allowedFolders []string) []match.Suggestion {
	suggestions := match.FindMatches(track, cache.Library(), allowedFolders)
	if suggestions == nil {
		suggestions = []match.Suggestion{}
	}
	return suggestions
}
