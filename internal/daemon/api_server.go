package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"mixcrate/internal/api"
	"mixcrate/internal/config"
	"mixcrate/internal/logging"
	"mixcrate/internal/playlist"
	"mixcrate/internal/services"
)

type apiServer struct {
	bind      string
	logger    *slog.Logger
	service   *api.LibraryService
	playlists *playlist.Store

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, errors.New("api bind address not configured")
	}

	srv := &apiServer{
		bind:      bind,
		logger:    logging.NewComponentLogger(logger, "api-server"),
		service:   d.service,
		playlists: d.playlists,
	}

	srv.server = &http.Server{
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/library", s.handleLibrary)
	mux.HandleFunc("/api/folders", s.handleFolders)
	mux.HandleFunc("/api/scan", s.handleScan)
	mux.HandleFunc("/api/scan/status", s.handleScanStatus)
	mux.HandleFunc("/api/track-info", s.handleTrackInfo)
	mux.HandleFunc("/api/mix-suggestions", s.handleMixSuggestions)
	mux.HandleFunc("/api/playlists", s.handlePlaylists)
	mux.HandleFunc("/api/playlists/", s.handlePlaylistItem)
	mux.HandleFunc("/api/preferences/folders", s.handleFolderPreferences)
	return mux
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleLibrary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.service.Library())
}

func (s *apiServer) handleFolders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.service.Folders())
}

func (s *apiServer) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.service.HasRoots() {
		s.writeError(w, http.StatusBadRequest, "no folders configured")
		return
	}
	// The scan must outlive this request; the daemon context bounds it.
	s.writeJSON(w, http.StatusOK, s.service.StartScan(context.Background()))
}

func (s *apiServer) handleScanStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.service.ScanStatus())
}

func (s *apiServer) handleTrackInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	query := r.URL.Query()
	path := strings.TrimSpace(query.Get("path"))
	filename := strings.TrimSpace(query.Get("filename"))
	if path == "" && filename == "" {
		s.writeError(w, http.StatusBadRequest, "path or filename required")
		return
	}

	resp, err := s.service.TrackInfo(path, filename, nil)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleMixSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req api.MixSuggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.service.MixSuggestions(req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handlePlaylists(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		playlists, err := s.playlists.List(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		if playlists == nil {
			playlists = []playlist.Playlist{}
		}
		s.writeJSON(w, http.StatusOK, playlists)
	case http.MethodPost:
		var req api.PlaylistRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		created, err := s.playlists.Create(r.Context(), req.Name)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, created)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handlePlaylistItem routes /api/playlists/{id} and its /tracks, /reorder,
// and /rename subresources.
func (s *apiServer) handlePlaylistItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/playlists/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" || strings.Contains(action, "/") {
		s.writeError(w, http.StatusNotFound, "playlist not found")
		return
	}

	switch action {
	case "":
		s.handlePlaylistRoot(w, r, id)
	case "tracks":
		s.handlePlaylistTracks(w, r, id)
	case "reorder":
		s.handlePlaylistReorder(w, r, id)
	case "rename":
		s.handlePlaylistRename(w, r, id)
	default:
		s.writeError(w, http.StatusNotFound, "playlist not found")
	}
}

func (s *apiServer) handlePlaylistRoot(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		p, err := s.playlists.Get(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, p)
	case http.MethodDelete:
		if err := s.playlists.Delete(r.Context(), id); err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) handlePlaylistTracks(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodPost:
		var req api.PlaylistTrackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Track == nil {
			s.writeError(w, http.StatusBadRequest, "track required")
			return
		}
		p, err := s.playlists.AddTrack(r.Context(), id, *req.Track)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, p)
	case http.MethodDelete:
		var req api.PlaylistRemoveTrackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
			s.writeError(w, http.StatusBadRequest, "index required")
			return
		}
		p, err := s.playlists.RemoveTrack(r.Context(), id, *req.Index)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, p)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) handlePlaylistReorder(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.PlaylistReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Tracks == nil {
		s.writeError(w, http.StatusBadRequest, "tracks required")
		return
	}
	p, err := s.playlists.Reorder(r.Context(), id, req.Tracks)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *apiServer) handlePlaylistRename(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPut {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := s.playlists.Rename(r.Context(), id, req.Name)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *apiServer) handleFolderPreferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		folders, err := s.playlists.EnabledFolders(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, folders)
	case http.MethodPut, http.MethodPost:
		var req api.FolderPreferencesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := s.playlists.SetEnabledFolders(r.Context(), req.EnabledFolders); err != nil {
			s.writeServiceError(w, err)
			return
		}
		folders := req.EnabledFolders
		if folders == nil {
			folders = []string{}
		}
		s.writeJSON(w, http.StatusOK, api.FolderPreferencesResponse{Success: true, EnabledFolders: folders})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps marker errors onto HTTP statuses.
func (s *apiServer) writeServiceError(w http.ResponseWriter, err error) {
	s.writeError(w, services.HTTPStatus(err), err.Error())
}
