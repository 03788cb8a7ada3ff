package testsupport

import (
	"context"
	"errors"
	"sync"

	"mixcrate/internal/library"
)

// StubExtractor is a deterministic library.Extractor for scanner tests. It
// counts calls per path and returns canned tracks, failing for any path in
// FailPaths.
type StubExtractor struct {
	mu        sync.Mutex
	calls     map[string]int
	FailPaths map[string]struct{}

	// Camelot and BPM are stamped onto every successful extraction.
	Camelot string
	Key     string
	BPM     int
}

// NewStubExtractor returns an extractor that reports every file as analyzable.
func NewStubExtractor() *StubExtractor {
	return &StubExtractor{
		calls:   make(map[string]int),
		Camelot: "8B",
		Key:     "C Major",
		BPM:     120,
	}
}

// Extract implements library.Extractor.
func (s *StubExtractor) Extract(_ context.Context, path string, wantLoudness bool) (library.Track, error) {
	s.mu.Lock()
	s.calls[path]++
	s.mu.Unlock()

	if _, fail := s.FailPaths[path]; fail {
		return library.Track{}, errors.New("stub extraction failure")
	}

	track := library.NewTrack(path)
	track.Duration = 180
	track.Bitrate = 320000
	track.SampleRate = 44100
	track.Artist = "Stub Artist"
	track.Title = "Stub Title"
	track.Album = "Stub Album"
	if wantLoudness {
		track.LoudnessDBFS = -9.5
		track.Key = s.Key
		track.Camelot = s.Camelot
		track.BPM = s.BPM
	}
	return track, nil
}

// Calls returns how many times the given path was extracted.
func (s *StubExtractor) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// TotalCalls returns the number of extractions across all paths.
func (s *StubExtractor) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}
