package domain

import (
	"context"
	"time"
)

// Video represents an uploaded video's metadata. The binary media itself
// lives in an external media store; VideoFile and Thumbnail only carry the
// URLs that store handed back. An unpublished video is visible to its
// owner alone.
type Video struct {
	ID          int    `json:"id"`
	UserID      int    `json:"user_id" gorm:"notNull;index"`
	Title       string `json:"title" gorm:"notNull"`
	Description string `json:"description"`
	VideoFile   string `json:"videoFile" gorm:"notNull"`
	Thumbnail   string `json:"thumbnail" gorm:"notNull"`
	Duration    int    `json:"duration"`
	Views       int    `json:"views"`
	IsPublished bool   `json:"isPublished"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VideoUpdate carries the mutable fields of a Video. Nil fields are left
// untouched.
type VideoUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Thumbnail   *string `json:"thumbnail"`
}

// VideoService is a set of methods to manipulate and work with the Video
// model. Reads that need joins (author, reactions, subscription state)
// live on FeedService instead.
type VideoService interface {
	CreateVideo(ctx context.Context, video *Video) error
	UpdateVideo(ctx context.Context, viewer *User, id int, upd *VideoUpdate) (*Video, error)
	DeleteVideo(ctx context.Context, viewer *User, id int) error
	TogglePublish(ctx context.Context, viewer *User, id int) (bool, error)
}
