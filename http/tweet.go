package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"wtfTube/auth"
	"wtfTube/domain"
	"wtfTube/errs"
)

// registerTweetRoutes is a helper for registering all Tweet routes.
func (s *Server) registerTweetRoutes(r *mux.Router) {
	// Create a new tweet.
	r.HandleFunc("/tweets", s.requireAuth(s.handleCreateTweet)).Methods("POST")

	// Update an existing tweet's content.
	r.HandleFunc("/tweets/{id}", s.requireAuth(s.handleUpdateTweet)).Methods("PATCH")

	// Delete an existing tweet.
	r.HandleFunc("/tweets/{id}", s.requireAuth(s.handleDeleteTweet)).Methods("DELETE")
}

// tweetRequest is the json body of tweet create and update requests.
type tweetRequest struct {
	Content string `json:"content" validate:"required"`
}

// handleCreateTweet handles the route "POST /tweets".
func (s *Server) handleCreateTweet(w http.ResponseWriter, r *http.Request) {
	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Content is required."))
		return
	}

	user := auth.GetUser(r.Context())
	tweet := domain.Tweet{
		UserID:  user.ID,
		Content: req.Content,
	}
	if err := s.ts.CreateTweet(r.Context(), &tweet); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(tweet); err != nil {
		errs.LogError(r, err)
	}
}

// handleUpdateTweet handles the route "PATCH /tweets/:id".
func (s *Server) handleUpdateTweet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := auth.GetUser(r.Context())
	tweet, err := s.ts.UpdateTweet(r.Context(), user, id, req.Content)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(tweet); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteTweet handles the route "DELETE /tweets/:id".
func (s *Server) handleDeleteTweet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := auth.GetUser(r.Context())
	if err := s.ts.DeleteTweet(r.Context(), user, id); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
