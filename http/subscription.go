package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"wtfTube/auth"
	"wtfTube/errs"
)

// registerSubscriptionRoutes is a helper for registering all Subscription routes.
func (s *Server) registerSubscriptionRoutes(r *mux.Router) {
	// Toggle the authed user's subscription to a channel.
	r.HandleFunc("/subscriptions/{channelId}", s.requireAuth(s.handleToggleSubscription)).Methods("POST")

	// List the subscribers of a channel.
	r.HandleFunc("/subscriptions/{channelId}/subscribers", s.handleSubscribers).Methods("GET")

	// List the channels a user is subscribed to.
	r.HandleFunc("/subscriptions/{userId}/channels", s.handleSubscribedChannels).Methods("GET")
}

// handleToggleSubscription handles the route "POST /subscriptions/:channelId".
// It toggles the authed user's subscription and returns the resulting state.
func (s *Server) handleToggleSubscription(w http.ResponseWriter, r *http.Request) {
	channelID, err := parseID(r, "channelId")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := auth.GetUser(r.Context())
	subscribed, err := s.sub.ToggleSubscription(r.Context(), user, channelID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	response := map[string]bool{"subscribed": subscribed}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		errs.LogError(r, err)
	}
}

// handleSubscribers handles the route "GET /subscriptions/:channelId/subscribers".
func (s *Server) handleSubscribers(w http.ResponseWriter, r *http.Request) {
	channelID, err := parseID(r, "channelId")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	viewer := auth.GetUser(r.Context())
	subscribers, err := s.sub.SubscribersOf(r.Context(), viewer, channelID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(subscribers); err != nil {
		errs.LogError(r, err)
	}
}

// handleSubscribedChannels handles the route "GET /subscriptions/:userId/channels".
func (s *Server) handleSubscribedChannels(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r, "userId")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	viewer := auth.GetUser(r.Context())
	channels, err := s.sub.ChannelsOf(r.Context(), viewer, userID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(channels); err != nil {
		errs.LogError(r, err)
	}
}
