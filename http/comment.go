package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"wtfTube/auth"
	"wtfTube/domain"
	"wtfTube/errs"
)

// registerCommentRoutes is a helper for registering all Comment routes.
func (s *Server) registerCommentRoutes(r *mux.Router) {
	// Create a new comment under a video or tweet.
	r.HandleFunc("/comments/{subjectType}/{subjectId}", s.requireAuth(s.handleCreateComment)).Methods("POST")

	// Update an existing comment's content.
	r.HandleFunc("/comments/{id}", s.requireAuth(s.handleUpdateComment)).Methods("PATCH")

	// Delete an existing comment.
	r.HandleFunc("/comments/{id}", s.requireAuth(s.handleDeleteComment)).Methods("DELETE")
}

// commentRequest is the json body of comment create and update requests.
type commentRequest struct {
	Content string `json:"content" validate:"required"`
}

// handleCreateComment handles the route "POST /comments/:subjectType/:subjectId".
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	subjectID, err := parseID(r, "subjectId")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Content is required."))
		return
	}

	user := auth.GetUser(r.Context())
	comment := domain.Comment{
		Content:     req.Content,
		SubjectType: mux.Vars(r)["subjectType"],
		SubjectID:   subjectID,
		UserID:      user.ID,
	}
	if err := s.cs.CreateComment(r.Context(), &comment); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(comment); err != nil {
		errs.LogError(r, err)
	}
}

// handleUpdateComment handles the route "PATCH /comments/:id".
func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := auth.GetUser(r.Context())
	comment, err := s.cs.UpdateComment(r.Context(), user, id, req.Content)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(comment); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteComment handles the route "DELETE /comments/:id".
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := auth.GetUser(r.Context())
	if err := s.cs.DeleteComment(r.Context(), user, id); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
