package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"wtfTube/auth"
	"wtfTube/crud"
	"wtfTube/domain"
	"wtfTube/errs"
)

// Server provides most of the http functionality of this app, namely routing,
// request handling, and middleware. It also performs authentication and
// authorization before handing things over to one of the database services.
type Server struct {
	router    *mux.Router
	logger    *zap.Logger
	limiter   *rate.Limiter
	validate  *validator.Validate
	jwtSecret string

	us  domain.UserService
	vs  domain.VideoService
	cs  domain.CommentService
	ts  domain.TweetService
	rs  domain.ReactionService
	sub domain.SubscriptionService
	ps  domain.PlaylistService
	fs  domain.FeedService
	sts domain.StatsService
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
func NewServer(jwtSecret string, logger *zap.Logger, services *crud.Services) *Server {
	// Construct a new Server with a gorilla router and the services passed in.
	s := &Server{
		router:    mux.NewRouter(),
		logger:    logger,
		limiter:   rate.NewLimiter(rate.Limit(100), 200),
		validate:  validator.New(),
		jwtSecret: jwtSecret,
		us:        services.User,
		vs:        services.Video,
		cs:        services.Comment,
		ts:        services.Tweet,
		rs:        services.Reaction,
		sub:       services.Subscription,
		ps:        services.Playlist,
		fs:        services.Feed,
		sts:       services.Stats,
	}

	// Register routes of the crud system.
	s.registerUserRoutes(s.router)
	s.registerReactionRoutes(s.router)
	s.registerFeedRoutes(s.router)
	s.registerVideoRoutes(s.router)
	s.registerCommentRoutes(s.router)
	s.registerTweetRoutes(s.router)
	s.registerSubscriptionRoutes(s.router)
	s.registerDashboardRoutes(s.router)
	s.registerPlaylistRoutes(s.router)

	// Set up middleware that needs to run on every request.
	s.router.Use(s.logRequest, s.rateLimit, setContentTypeJSON, s.authUser)
	return s
}

// ServeHTTP makes the server satisfy http.Handler, so tests can drive it
// through httptest without opening a port.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// The logRequest middleware tags every request with an ID and logs it.
func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)
		s.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r)
	})
}

// The rateLimit middleware rejects requests beyond the server-wide budget.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"Too many requests."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// The authUser middleware resolves the Bearer token, if any, into a user and
// stores it in the request context. Requests without a valid token pass
// through anonymously; requireAuth decides per route whether that's enough.
func (s *Server) authUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := auth.ParseToken(s.jwtSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.us.FindUserByID(r.Context(), claims.UserID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		r = r.WithContext(auth.SetUser(r.Context(), user))
		next.ServeHTTP(w, r)
	})
}

// requireAuth guards a handler against anonymous access.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUser(r.Context()) == nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "You must be logged in."))
			return
		}
		next.ServeHTTP(w, r)
	}
}

// parseID parses a numeric path variable.
func parseID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	return id, nil
}

// parsePageRequest reads the paging query params. Absent or garbage values
// come out as zero; the feed aggregator normalizes them.
func parsePageRequest(r *http.Request) domain.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return domain.PageRequest{
		Page:     page,
		Limit:    limit,
		SortBy:   q.Get("sortBy"),
		SortType: q.Get("sortType"),
	}
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) error {
	s.logger.Info("listening", zap.Int("port", port))
	return http.ListenAndServe(":"+strconv.Itoa(port), s.router)
}
