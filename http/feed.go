package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"wtfTube/auth"
	"wtfTube/domain"
	"wtfTube/errs"
)

// registerFeedRoutes is a helper for registering all Feed routes.
// Feed routes are public; the optional Bearer token only enriches the
// response with viewer-relative flags.
func (s *Server) registerFeedRoutes(r *mux.Router) {
	// Paginated comments under a video or tweet.
	r.HandleFunc("/feeds/{subjectType}/{subjectId}/comments", s.handleCommentFeed).Methods("GET")

	// Paginated tweets of a channel.
	r.HandleFunc("/feeds/tweets/{userId}", s.handleTweetFeed).Methods("GET")

	// Paginated videos of a channel.
	r.HandleFunc("/feeds/videos", s.handleVideoFeed).Methods("GET")

	// A single video by ID, watch-page shape.
	r.HandleFunc("/videos/{id}", s.handleVideoByID).Methods("GET")
}

// handleCommentFeed handles the route "GET /feeds/:subjectType/:subjectId/comments".
func (s *Server) handleCommentFeed(w http.ResponseWriter, r *http.Request) {
	subjectID, err := parseID(r, "subjectId")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	subjectType := mux.Vars(r)["subjectType"]

	viewer := auth.GetUser(r.Context())
	page, err := s.fs.Comments(r.Context(), viewer, subjectType, subjectID, parsePageRequest(r))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(page); err != nil {
		errs.LogError(r, err)
	}
}

// handleTweetFeed handles the route "GET /feeds/tweets/:userId".
func (s *Server) handleTweetFeed(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r, "userId")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	viewer := auth.GetUser(r.Context())
	page, err := s.fs.Tweets(r.Context(), viewer, userID, parsePageRequest(r))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(page); err != nil {
		errs.LogError(r, err)
	}
}

// handleVideoFeed handles the route "GET /feeds/videos".
// The channel is selected with the userId query param, which is required.
func (s *Server) handleVideoFeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, _ := strconv.Atoi(q.Get("userId"))
	filter := domain.VideoFilter{
		UserID: userID,
		Query:  q.Get("query"),
	}

	viewer := auth.GetUser(r.Context())
	page, err := s.fs.Videos(r.Context(), viewer, filter, parsePageRequest(r))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(page); err != nil {
		errs.LogError(r, err)
	}
}

// handleVideoByID handles the route "GET /videos/:id".
// It returns the watch-page shape of the video and bumps its view counter.
func (s *Server) handleVideoByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	viewer := auth.GetUser(r.Context())
	video, err := s.fs.VideoByID(r.Context(), viewer, id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(video); err != nil {
		errs.LogError(r, err)
	}
}
