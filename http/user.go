package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"wtfTube/auth"
	"wtfTube/domain"
	"wtfTube/errs"
)

// registerUserRoutes is a helper for registering all User routes.
func (s *Server) registerUserRoutes(r *mux.Router) {
	// Register a new account.
	r.HandleFunc("/users", s.handleRegister).Methods("POST")

	// Public channel profile of a user.
	r.HandleFunc("/users/{username}", s.handleChannelProfile).Methods("GET")
}

// registerRequest is the json body of an account registration request.
type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Avatar   string `json:"avatar" validate:"omitempty,url"`
}

// handleRegister handles the route "POST /users".
// Access tokens are issued by the external credential service; registering
// only creates the account record.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Username, email, full name and a password of at least 8 characters are required."))
		return
	}

	user := domain.User{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		Avatar:   req.Avatar,
	}
	if err := s.us.CreateUser(r.Context(), &user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(user); err != nil {
		errs.LogError(r, err)
	}
}

// handleChannelProfile handles the route "GET /users/:username".
// It returns the channel shape of the user: public fields plus subscriber
// count and, for an authed viewer, their subscription state.
func (s *Server) handleChannelProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	user, err := s.us.FindUserByUsername(r.Context(), username)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	viewer := auth.GetUser(r.Context())
	subscribers, err := s.sub.SubscribersOf(r.Context(), viewer, user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	subscribed := false
	if viewer != nil {
		channels, err := s.sub.ChannelsOf(r.Context(), viewer, viewer.ID)
		if err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		for _, c := range channels {
			if c.Username == user.Username {
				subscribed = true
				break
			}
		}
	}

	channel := domain.Channel{
		Author: domain.Author{
			Username: user.Username,
			FullName: user.FullName,
			Avatar:   user.Avatar,
		},
		SubscribersCount: len(subscribers),
		IsSubscribed:     subscribed,
	}
	if err := json.NewEncoder(w).Encode(channel); err != nil {
		errs.LogError(r, err)
	}
}
