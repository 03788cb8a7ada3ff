package playlist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"mixcrate/internal/library"
	"mixcrate/internal/services"
)

// Playlist is an ordered set of tracks. Tracks are stored as full feature
// records so a playlist survives library rescans and file moves.
type Playlist struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt string          `json:"created_at"`
	Tracks    []library.Track `json:"tracks"`
}

const defaultName = "New Playlist"

// enabledFoldersKey is the preferences row holding the folder allow-list.
const enabledFoldersKey = "enabled_folders"

// Store manages playlist and preference persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the playlist database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// List returns all playlists with their tracks, newest first.
func (s *Store) List(ctx context.Context) ([]Playlist, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM playlists ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []Playlist
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}

	for i := range playlists {
		tracks, err := s.loadTracks(ctx, playlists[i].ID)
		if err != nil {
			return nil, err
		}
		playlists[i].Tracks = tracks
	}
	return playlists, nil
}

// Create stores a new empty playlist. An empty name gets a default.
func (s *Store) Create(ctx context.Context, name string) (Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultName
	}

	p := Playlist{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Tracks:    []library.Track{},
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO playlists (id, name, created_at) VALUES (?, ?, ?)",
		p.ID, p.Name, p.CreatedAt)
	if err != nil {
		return Playlist{}, fmt.Errorf("create playlist: %w", err)
	}
	return p, nil
}

// Get returns one playlist with its tracks.
func (s *Store) Get(ctx context.Context, id string) (Playlist, error) {
	var p Playlist
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM playlists WHERE id = ?", id).
		Scan(&p.ID, &p.Name, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Playlist{}, services.Wrap(services.ErrNotFound, "playlist", "get", "playlist not found", nil)
	}
	if err != nil {
		return Playlist{}, fmt.Errorf("get playlist: %w", err)
	}

	tracks, err := s.loadTracks(ctx, id)
	if err != nil {
		return Playlist{}, err
	}
	p.Tracks = tracks
	return p, nil
}

// Delete removes a playlist and its tracks.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM playlists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "playlist", "delete", "playlist not found", nil)
	}
	return nil
}

// Rename changes a playlist's display name.
func (s *Store) Rename(ctx context.Context, id, name string) (Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Playlist{}, services.Wrap(services.ErrValidation, "playlist", "rename", "name must not be empty", nil)
	}

	res, err := s.db.ExecContext(ctx, "UPDATE playlists SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return Playlist{}, fmt.Errorf("rename playlist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Playlist{}, fmt.Errorf("rename playlist: %w", err)
	}
	if affected == 0 {
		return Playlist{}, services.Wrap(services.ErrNotFound, "playlist", "rename", "playlist not found", nil)
	}
	return s.Get(ctx, id)
}

// AddTrack appends a track to the end of a playlist.
func (s *Store) AddTrack(ctx context.Context, id string, track library.Track) (Playlist, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return Playlist{}, err
	}

	encoded, err := json.Marshal(track)
	if err != nil {
		return Playlist{}, fmt.Errorf("encode track: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO playlist_tracks (playlist_id, position, track)
		 VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM playlist_tracks WHERE playlist_id = ?), ?)`,
		id, id, string(encoded))
	if err != nil {
		return Playlist{}, fmt.Errorf("add track: %w", err)
	}
	return s.Get(ctx, id)
}

// RemoveTrack deletes the track at the given zero-based position and closes
// the gap.
func (s *Store) RemoveTrack(ctx context.Context, id string, index int) (Playlist, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Playlist{}, err
	}
	if index < 0 || index >= len(current.Tracks) {
		return Playlist{}, services.Wrap(services.ErrValidation, "playlist", "remove_track", "invalid track index", nil)
	}

	remaining := make([]library.Track, 0, len(current.Tracks)-1)
	remaining = append(remaining, current.Tracks[:index]...)
	remaining = append(remaining, current.Tracks[index+1:]...)
	return s.Reorder(ctx, id, remaining)
}

// Reorder replaces a playlist's track list wholesale. The caller supplies the
// full list in its new order.
func (s *Store) Reorder(ctx context.Context, id string, tracks []library.Track) (Playlist, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return Playlist{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Playlist{}, fmt.Errorf("begin reorder tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM playlist_tracks WHERE playlist_id = ?", id); err != nil {
		return Playlist{}, fmt.Errorf("clear tracks: %w", err)
	}
	for position, track := range tracks {
		encoded, err := json.Marshal(track)
		if err != nil {
			return Playlist{}, fmt.Errorf("encode track: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO playlist_tracks (playlist_id, position, track) VALUES (?, ?, ?)",
			id, position, string(encoded)); err != nil {
			return Playlist{}, fmt.Errorf("insert track: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Playlist{}, fmt.Errorf("commit reorder: %w", err)
	}
	return s.Get(ctx, id)
}

// EnabledFolders returns the saved folder allow-list. A library with no saved
// preference yields an empty list.
func (s *Store) EnabledFolders(ctx context.Context) ([]string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM preferences WHERE key = ?", enabledFoldersKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read folder preferences: %w", err)
	}

	var folders []string
	if err := json.Unmarshal([]byte(value), &folders); err != nil {
		return nil, fmt.Errorf("decode folder preferences: %w", err)
	}
	if folders == nil {
		folders = []string{}
	}
	return folders, nil
}

// SetEnabledFolders replaces the saved folder allow-list.
func (s *Store) SetEnabledFolders(ctx context.Context, folders []string) error {
	if folders == nil {
		folders = []string{}
	}
	encoded, err := json.Marshal(folders)
	if err != nil {
		return fmt.Errorf("encode folder preferences: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		enabledFoldersKey, string(encoded), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save folder preferences: %w", err)
	}
	return nil
}

func (s *Store) loadTracks(ctx context.Context, id string) ([]library.Track, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT track FROM playlist_tracks WHERE playlist_id = ? ORDER BY position", id)
	if err != nil {
		return nil, fmt.Errorf("load tracks: %w", err)
	}
	defer rows.Close()

	tracks := []library.Track{}
	for rows.Next() {
		var encoded string
		if err := rows.Scan(&encoded); err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		var track library.Track
		if err := json.Unmarshal([]byte(encoded), &track); err != nil {
			return nil, fmt.Errorf("decode track: %w", err)
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load tracks: %w", err)
	}
	return tracks, nil
}
