package domain

import (
	"context"
	"time"
)

// Tweet is a short text post on a user's channel.
type Tweet struct {
	ID      int    `json:"id"`
	UserID  int    `json:"user_id" gorm:"notNull;index"`
	Content string `json:"content" gorm:"notNull"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TweetService is a set of methods to manipulate and work with the Tweet model.
type TweetService interface {
	CreateTweet(ctx context.Context, tweet *Tweet) error
	UpdateTweet(ctx context.Context, viewer *User, id int, content string) (*Tweet, error)
	DeleteTweet(ctx context.Context, viewer *User, id int) error
}
