package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"wtfTube/auth"
	"wtfTube/domain"
	"wtfTube/errs"
)

// registerVideoRoutes is a helper for registering all Video write routes.
// Video reads live on the feed routes.
func (s *Server) registerVideoRoutes(r *mux.Router) {
	// Publish new video metadata (the media store upload happens first,
	// client-side; this records the URLs it handed back).
	r.HandleFunc("/videos", s.requireAuth(s.handleCreateVideo)).Methods("POST")

	// Update an existing video's metadata.
	r.HandleFunc("/videos/{id}", s.requireAuth(s.handleUpdateVideo)).Methods("PATCH")

	// Flip a video's publication flag.
	r.HandleFunc("/videos/{id}/publish", s.requireAuth(s.handleTogglePublish)).Methods("PATCH")

	// Delete a video.
	r.HandleFunc("/videos/{id}", s.requireAuth(s.handleDeleteVideo)).Methods("DELETE")
}

// createVideoRequest is the json body of a video creation request.
type createVideoRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	VideoFile   string `json:"videoFile" validate:"required,url"`
	Thumbnail   string `json:"thumbnail" validate:"required,url"`
	Duration    int    `json:"duration" validate:"gte=0"`
}

// handleCreateVideo handles the route "POST /videos".
func (s *Server) handleCreateVideo(w http.ResponseWriter, r *http.Request) {
	var req createVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Title, description, video file and thumbnail are required."))
		return
	}

	user := auth.GetUser(r.Context())
	video := domain.Video{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		VideoFile:   req.VideoFile,
		Thumbnail:   req.Thumbnail,
		Duration:    req.Duration,
	}
	if err := s.vs.CreateVideo(r.Context(), &video); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(video); err != nil {
		errs.LogError(r, err)
	}
}

// handleUpdateVideo handles the route "PATCH /videos/:id".
func (s *Server) handleUpdateVideo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	var upd domain.VideoUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := auth.GetUser(r.Context())
	video, err := s.vs.UpdateVideo(r.Context(), user, id, &upd)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(video); err != nil {
		errs.LogError(r, err)
	}
}

// handleTogglePublish handles the route "PATCH /videos/:id/publish".
func (s *Server) handleTogglePublish(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := auth.GetUser(r.Context())
	published, err := s.vs.TogglePublish(r.Context(), user, id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	response := map[string]bool{"isPublished": published}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteVideo handles the route "DELETE /videos/:id".
func (s *Server) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := auth.GetUser(r.Context())
	if err := s.vs.DeleteVideo(r.Context(), user, id); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
