// Package playlist persists user-curated playlists and folder preferences in
// a SQLite database separate from the analysis cache. Playlists carry full
// track records, ordered by an explicit position column.
package playlist
