package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wtfTube/auth"
	"wtfTube/crud"
	"wtfTube/domain"
)

const testSecret = "test-secret"

// newTestServer wires a full server against an in-memory database, the same
// way main does, minus cache and broker.
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		domain.User{},
		domain.Video{},
		domain.Comment{},
		domain.Tweet{},
		domain.Reaction{},
		domain.Subscription{},
		domain.Playlist{},
	)
	require.NoError(t, err)

	services, err := crud.NewServices(
		db,
		crud.WithUser(),
		crud.WithVideo(),
		crud.WithComment(),
		crud.WithTweet(),
		crud.WithReaction(nil),
		crud.WithSubscription(nil),
		crud.WithPlaylist(),
		crud.WithFeed(),
		crud.WithStats(nil, 0),
	)
	require.NoError(t, err)

	return NewServer(testSecret, zap.NewNop(), services), db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		FullName:     "Test " + username,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedVideo(t *testing.T, db *gorm.DB, owner *domain.User, title string, published bool) *domain.Video {
	t.Helper()
	video := &domain.Video{
		UserID:      owner.ID,
		Title:       title,
		Description: "about " + title,
		VideoFile:   "https://cdn.example.com/" + title + ".mp4",
		Thumbnail:   "https://cdn.example.com/" + title + ".jpg",
		IsPublished: published,
	}
	require.NoError(t, db.Create(video).Error)
	return video
}

// do fires a request at the server, optionally authenticated as user.
func do(t *testing.T, s *Server, method, path, body string, user *domain.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if user != nil {
		token, err := auth.SignToken(testSecret, user.ID, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestToggleReactionEndpoint(t *testing.T) {
	s, db := newTestServer(t)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	video := seedVideo(t, db, owner, "clip", true)

	// Anonymous toggles are rejected.
	rec := do(t, s, "POST", fmt.Sprintf("/reactions/video/%d/like", video.ID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A like toggle returns both state keys.
	rec = do(t, s, "POST", fmt.Sprintf("/reactions/video/%d/like", video.ID), "", viewer)
	require.Equal(t, http.StatusOK, rec.Code)
	var state map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	liked, ok := state["liked"]
	require.True(t, ok)
	assert.True(t, liked)
	disliked, ok := state["disliked"]
	require.True(t, ok)
	assert.False(t, disliked)

	// Switching to dislike flips both keys.
	rec = do(t, s, "POST", fmt.Sprintf("/reactions/video/%d/dislike", video.ID), "", viewer)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.False(t, state["liked"])
	assert.True(t, state["disliked"])

	// Unknown content kinds are a client error.
	rec = do(t, s, "POST", "/reactions/playlist/1/like", "", viewer)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing subjects are not found.
	rec = do(t, s, "POST", "/reactions/video/9999/like", "", viewer)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMalformedIDsAreClientErrors(t *testing.T) {
	s, db := newTestServer(t)
	viewer := seedUser(t, db, "viewer")

	// Non-numeric ids reach the handler and come back as JSON client
	// errors, not a router 404.
	rec := do(t, s, "POST", "/reactions/video/abc/like", "", viewer)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Invalid Id format."}`, rec.Body.String())

	rec = do(t, s, "GET", "/videos/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, "GET", "/feeds/video/abc/comments", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, "POST", "/subscriptions/abc", "", viewer)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommentFeedEndpoint(t *testing.T) {
	s, db := newTestServer(t)
	owner := seedUser(t, db, "owner")
	video := seedVideo(t, db, owner, "clip", true)

	rec := do(t, s, "GET", fmt.Sprintf("/feeds/video/%d/comments", video.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var page struct {
		Page         int               `json:"page"`
		Limit        int               `json:"limit"`
		TotalPages   int               `json:"totalPages"`
		TotalResults int               `json:"totalResults"`
		Items        []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, domain.DefaultPageLimit, page.Limit)
	assert.Equal(t, 0, page.TotalResults)
	assert.NotNil(t, page.Items)

	// A disallowed sort field is rejected, not remapped.
	rec = do(t, s, "GET", fmt.Sprintf("/feeds/video/%d/comments?sortBy=owner", video.ID), "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	body := `{"username":"alice","email":"alice@example.com","fullName":"Alice A.","password":"correct horse"}`
	rec := do(t, s, "POST", "/users", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "alice", created.Username)
	// The hash never leaves the server.
	assert.NotContains(t, rec.Body.String(), "password")

	// Re-registering the same username conflicts.
	rec = do(t, s, "POST", "/users", body, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Short passwords never reach the service.
	rec = do(t, s, "POST", "/users", `{"username":"bob","email":"bob@example.com","fullName":"Bob","password":"short"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardStatsEndpoint(t *testing.T) {
	s, db := newTestServer(t)
	owner := seedUser(t, db, "owner")
	seedVideo(t, db, owner, "clip", true)

	rec := do(t, s, "GET", "/dashboard/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, "GET", "/dashboard/stats", "", owner)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats domain.ChannelStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalVideos)
}

func TestVideoWriteEndpoints(t *testing.T) {
	s, db := newTestServer(t)
	owner := seedUser(t, db, "owner")

	body := `{"title":"clip","description":"about clip","videoFile":"https://cdn.example.com/clip.mp4","thumbnail":"https://cdn.example.com/clip.jpg","duration":120}`
	rec := do(t, s, "POST", "/videos", body, owner)
	require.Equal(t, http.StatusCreated, rec.Code)
	var video domain.Video
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &video))
	assert.False(t, video.IsPublished)

	rec = do(t, s, "PATCH", fmt.Sprintf("/videos/%d/publish", video.ID), "", owner)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"isPublished":true}`, rec.Body.String())

	rec = do(t, s, "DELETE", fmt.Sprintf("/videos/%d", video.ID), "", owner)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
