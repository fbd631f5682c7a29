package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"wtfTube/auth"
	"wtfTube/domain"
	"wtfTube/errs"
)

// registerPlaylistRoutes is a helper for registering all Playlist routes.
func (s *Server) registerPlaylistRoutes(r *mux.Router) {
	// Create a new playlist.
	r.HandleFunc("/playlists", s.requireAuth(s.handleCreatePlaylist)).Methods("POST")

	// A playlist with its visible videos.
	r.HandleFunc("/playlists/{id}", s.handlePlaylistByID).Methods("GET")

	// All playlists of a user.
	r.HandleFunc("/playlists/user/{userId}", s.handlePlaylistsByUser).Methods("GET")

	// Add a video to a playlist.
	r.HandleFunc("/playlists/{id}/videos/{videoId}", s.requireAuth(s.handleAddPlaylistVideo)).Methods("POST")

	// Remove a video from a playlist.
	r.HandleFunc("/playlists/{id}/videos/{videoId}", s.requireAuth(s.handleRemovePlaylistVideo)).Methods("DELETE")

	// Update a playlist's name or description.
	r.HandleFunc("/playlists/{id}", s.requireAuth(s.handleUpdatePlaylist)).Methods("PATCH")

	// Delete a playlist.
	r.HandleFunc("/playlists/{id}", s.requireAuth(s.handleDeletePlaylist)).Methods("DELETE")
}

// playlistRequest is the json body of a playlist creation request.
type playlistRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// handleCreatePlaylist handles the route "POST /playlists".
func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Name and description are required."))
		return
	}

	user := auth.GetUser(r.Context())
	playlist := domain.Playlist{
		Name:        req.Name,
		Description: req.Description,
		UserID:      user.ID,
	}
	if err := s.ps.CreatePlaylist(r.Context(), &playlist); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(playlist); err != nil {
		errs.LogError(r, err)
	}
}

// handlePlaylistByID handles the route "GET /playlists/:id".
func (s *Server) handlePlaylistByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	viewer := auth.GetUser(r.Context())
	playlist, err := s.ps.PlaylistByID(r.Context(), viewer, id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(playlist); err != nil {
		errs.LogError(r, err)
	}
}

// handlePlaylistsByUser handles the route "GET /playlists/user/:userId".
func (s *Server) handlePlaylistsByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r, "userId")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	playlists, err := s.ps.PlaylistsByUserID(r.Context(), userID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(playlists); err != nil {
		errs.LogError(r, err)
	}
}

// handleAddPlaylistVideo handles the route "POST /playlists/:id/videos/:videoId".
func (s *Server) handleAddPlaylistVideo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	videoID, err := parseID(r, "videoId")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := auth.GetUser(r.Context())
	if err := s.ps.AddVideo(r.Context(), user, id, videoID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRemovePlaylistVideo handles the route "DELETE /playlists/:id/videos/:videoId".
func (s *Server) handleRemovePlaylistVideo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	videoID, err := parseID(r, "videoId")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := auth.GetUser(r.Context())
	if err := s.ps.RemoveVideo(r.Context(), user, id, videoID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdatePlaylist handles the route "PATCH /playlists/:id".
func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	var upd domain.PlaylistUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := auth.GetUser(r.Context())
	playlist, err := s.ps.UpdatePlaylist(r.Context(), user, id, &upd)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(playlist); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeletePlaylist handles the route "DELETE /playlists/:id".
func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := auth.GetUser(r.Context())
	if err := s.ps.DeletePlaylist(r.Context(), user, id); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
