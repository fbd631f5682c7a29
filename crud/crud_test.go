package crud

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wtfTube/domain"
)

// testDB opens a fresh in-memory sqlite database with the same migrations
// and error translation the app runs with. One connection only, so the
// in-memory database survives across queries.
func testDB(t *testing.T) *gorm.DB {
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
	return db
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
		Duration:    120,
		IsPublished: published,
	}
	require.NoError(t, db.Create(video).Error)
	return video
}

func seedTweet(t *testing.T, db *gorm.DB, owner *domain.User, content string) *domain.Tweet {
	t.Helper()
	tweet := &domain.Tweet{UserID: owner.ID, Content: content}
	require.NoError(t, db.Create(tweet).Error)
	return tweet
}

func seedComment(t *testing.T, db *gorm.DB, owner *domain.User, subjectType string, subjectID int, content string) *domain.Comment {
	t.Helper()
	comment := &domain.Comment{
		Content:     content,
		SubjectType: subjectType,
		SubjectID:   subjectID,
		UserID:      owner.ID,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

// countReactions returns the number of reaction edges one user holds on one
// subject. The toggle invariant says it can never exceed one.
func countReactions(t *testing.T, db *gorm.DB, subjectType string, subjectID, userID int) int64 {
	t.Helper()
	var n int64
	err := db.Model(&domain.Reaction{}).
		Where("subject_type = ? AND subject_id = ? AND user_id = ?", subjectType, subjectID, userID).
		Count(&n).Error
	require.NoError(t, err)
	return n
}

var ctx = context.Background()
