package api

import (
	"mixcrate/internal/library"
	"mixcrate/internal/match"
)

// ScanResponse reports whether a scan start request took effect. Info is
// populated on rejection so clients can show what is already running.
type ScanResponse struct {
	Status string              `json:"status"`
	Info   *library.ScanStatus `json:"info,omitempty"`
}

// Scan start statuses.
const (
	ScanStarted         = "started"
	ScanAlreadyScanning = "already_scanning"
)

// TrackInfoResponse pairs a resolved track with its ranked suggestions.
// Source names where the track record came from.
type TrackInfoResponse struct {
	Track       library.Track      `json:"track"`
	Suggestions []match.Suggestion `json:"suggestions"`
	Source      string             `json:"source,omitempty"`
}

// MixSuggestionsRequest carries a reference track and an optional folder
// allow-list. A missing allowed_folders field means no filter; an empty array
// filters out everything.
type MixSuggestionsRequest struct {
	Track          *library.Track `json:"track"`
	AllowedFolders []string       `json:"allowed_folders"`
}

// MixSuggestionsResponse mirrors TrackInfoResponse for inline references.
type MixSuggestionsResponse struct {
	Track       library.Track      `json:"track"`
	Suggestions []match.Suggestion `json:"suggestions"`
}

// PlaylistRequest is the body for create and rename calls.
type PlaylistRequest struct {
	Name string `json:"name"`
}

// PlaylistTrackRequest adds a track to a playlist.
type PlaylistTrackRequest struct {
	Track *library.Track `json:"track"`
}

// PlaylistRemoveTrackRequest removes the track at a zero-based index.
type PlaylistRemoveTrackRequest struct {
	Index *int `json:"index"`
}

// PlaylistReorderRequest replaces a playlist's track order wholesale.
type PlaylistReorderRequest struct {
	Tracks []library.Track `json:"tracks"`
}

// FolderPreferencesRequest replaces the saved folder allow-list.
type FolderPreferencesRequest struct {
	EnabledFolders []string `json:"enabled_folders"`
}

// FolderPreferencesResponse confirms a preference write.
type FolderPreferencesResponse struct {
	Success        bool     `json:"success"`
	EnabledFolders []string `json:"enabled_folders"`
}
