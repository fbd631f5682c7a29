package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"wtfTube/auth"
	"wtfTube/domain"
	"wtfTube/errs"
)

// registerReactionRoutes is a helper for registering all Reaction routes.
func (s *Server) registerReactionRoutes(r *mux.Router) {
	// Toggle a like on a piece of content.
	r.HandleFunc("/reactions/{contentType}/{contentId}/like",
		s.requireAuth(s.handleToggleReaction(domain.PolarityLike))).Methods("POST")

	// Toggle a dislike on a piece of content.
	r.HandleFunc("/reactions/{contentType}/{contentId}/dislike",
		s.requireAuth(s.handleToggleReaction(domain.PolarityDislike))).Methods("POST")

	// List the videos the authed user has liked.
	r.HandleFunc("/likes/videos", s.requireAuth(s.handleLikedVideos)).Methods("GET")
}

// handleToggleReaction handles the routes "POST /reactions/:contentType/:contentId/like"
// and "POST /reactions/:contentType/:contentId/dislike". It toggles the authed
// user's reaction on the content and returns the resulting state, with both
// the liked and disliked keys always present.
func (s *Server) handleToggleReaction(polarity string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contentID, err := parseID(r, "contentId")
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		contentType := mux.Vars(r)["contentType"]

		user := auth.GetUser(r.Context())
		state, err := s.rs.Toggle(r.Context(), user, contentType, contentID, polarity)
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}

		if err := json.NewEncoder(w).Encode(state); err != nil {
			errs.LogError(r, err)
		}
	}
}

// handleLikedVideos handles the route "GET /likes/videos".
// It returns the videos the authed user has liked, newest like first.
func (s *Server) handleLikedVideos(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	videos, err := s.rs.LikedVideos(r.Context(), user)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(videos); err != nil {
		errs.LogError(r, err)
	}
}
