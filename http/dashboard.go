package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"wtfTube/auth"
	"wtfTube/errs"
)

// registerDashboardRoutes is a helper for registering all Dashboard routes.
func (s *Server) registerDashboardRoutes(r *mux.Router) {
	// Aggregate counters of the authed user's channel.
	r.HandleFunc("/dashboard/stats", s.requireAuth(s.handleChannelStats)).Methods("GET")
}

// handleChannelStats handles the route "GET /dashboard/stats".
// A channel with no activity returns all-zero counters, not an error.
func (s *Server) handleChannelStats(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())
	stats, err := s.sts.ChannelStats(r.Context(), user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		errs.LogError(r, err)
	}
}
