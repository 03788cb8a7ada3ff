package library

import (
	"path"

	"mixcrate/internal/fileutil"
	"mixcrate/internal/music"
)

// NotAnalyzedDBFS marks a track whose loudness has never been measured. It is
// distinct from any real measurement; genuinely silent audio is clamped above
// this value by the extractor.
const NotAnalyzedDBFS = -99.0

// TagUnknown is the default for artist, title, and album when no tag was read.
const TagUnknown = "Unknown"

// Track is the feature record for one audio file. Field names in JSON form
// are the persisted cache format and the API wire format.
type Track struct {
	Path         string  `json:"path"`
	Filename     string  `json:"filename"`
	Folder       string  `json:"folder"`
	Duration     float64 `json:"duration"`
	Bitrate      int     `json:"bitrate"`
	SampleRate   int     `json:"sample_rate"`
	LoudnessDBFS float64 `json:"dbfs"`
	Key          string  `json:"key"`
	Camelot      string  `json:"camelot"`
	BPM          int     `json:"bpm"`
	Artist       string  `json:"artist"`
	Title        string  `json:"title"`
	Album        string  `json:"album"`
}

// NewTrack returns a record with every analysis field at its documented
// sentinel. The path must already be in normalized (absolute, forward-slash)
// form.
func NewTrack(normalizedPath string) Track {
	return Track{
		Path:         normalizedPath,
		Filename:     path.Base(normalizedPath),
		Folder:       fileutil.FolderOf(normalizedPath),
		LoudnessDBFS: NotAnalyzedDBFS,
		Key:          music.KeyUnknown,
		Camelot:      music.CodeNone,
		Artist:       TagUnknown,
		Title:        TagUnknown,
		Album:        TagUnknown,
	}
}

// GainIncomplete reports whether the loudness field still holds its sentinel.
// Records from metadata-only scans stay gain-incomplete so a later scan that
// requests loudness re-analyzes them even when the file is unchanged.
func (t Track) GainIncomplete() bool {
	return t.LoudnessDBFS == NotAnalyzedDBFS
}

// HasKey reports whether key analysis produced a usable Camelot code.
func (t Track) HasKey() bool {
	return t.Camelot != "" && t.Camelot != music.CodeNone
}

// Fingerprint captures the cheap change-detection pair recorded at analysis
// time. Any difference in either field marks the cache entry stale.
type Fingerprint struct {
	MTime int64 `json:"mtime"`
	Size  int64 `json:"size"`
}

// Entry wraps a track with the fingerprint the file had when analyzed.
type Entry struct {
	Fingerprint Fingerprint `json:"fingerprint"`
	Info        Track       `json:"info"`
}

// Fresh reports whether the entry still describes the file with the given
// current fingerprint.
func (e Entry) Fresh(current Fingerprint) bool {
	return e.Fingerprint == current
}
