package domain

import (
	"context"
	"time"
)

// CommentView is a comment as it appears in a feed: author resolved,
// reaction counts joined, viewer flags computed.
type CommentView struct {
	ID          int       `json:"id"`
	Content     string    `json:"content"`
	SubjectType string    `json:"subject_type"`
	SubjectID   int       `json:"subject_id"`
	Author      Author    `json:"author"`
	CreatedAt   time.Time `json:"created_at"`
	ReactionSummary
}

// TweetView is a tweet as it appears in a feed.
type TweetView struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	ReactionSummary
}

// VideoView is a video as it appears in a channel feed.
type VideoView struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    int       `json:"duration"`
	Views       int       `json:"views"`
	IsPublished bool      `json:"isPublished"`
	Author      Author    `json:"author"`
	CreatedAt   time.Time `json:"created_at"`
	ReactionSummary
}

// VideoDetail is the watch-page shape of a single video. Unlike the feed
// row it carries the full channel sub-document with subscription state.
type VideoDetail struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    int       `json:"duration"`
	Views       int       `json:"views"`
	IsPublished bool      `json:"isPublished"`
	Channel     Channel   `json:"channel"`
	CreatedAt   time.Time `json:"created_at"`
	ReactionSummary
}

// VideoFilter narrows a video feed. UserID is required (feeds are always
// per channel); Query optionally matches title or description,
// case-insensitively.
type VideoFilter struct {
	UserID int
	Query  string
}

// ChannelStats are the aggregate counters of a channel's dashboard. A
// channel with no activity yields the zero value, not an error.
type ChannelStats struct {
	TotalViews       int `json:"totalViews"`
	TotalVideos      int `json:"totalVideos"`
	TotalSubscribers int `json:"totalSubscribers"`

	TotalLikes      int `json:"totalLikes"`
	VideoLikes      int `json:"videoLikes"`
	CommentLikes    int `json:"commentLikes"`
	TweetLikes      int `json:"tweetLikes"`
	TotalDislikes   int `json:"totalDislikes"`
	VideoDislikes   int `json:"videoDislikes"`
	CommentDislikes int `json:"commentDislikes"`
	TweetDislikes   int `json:"tweetDislikes"`
}

// FeedService assembles read-optimized, viewer-relative content lists.
// Every method normalizes its PageRequest itself and excludes items whose
// author cannot be resolved.
type FeedService interface {
	Comments(ctx context.Context, viewer *User, subjectType string, subjectID int, req PageRequest) (*Page[CommentView], error)
	Tweets(ctx context.Context, viewer *User, userID int, req PageRequest) (*Page[TweetView], error)
	Videos(ctx context.Context, viewer *User, filter VideoFilter, req PageRequest) (*Page[VideoView], error)
	VideoByID(ctx context.Context, viewer *User, id int) (*VideoDetail, error)
}

// StatsService computes channel dashboard counters.
type StatsService interface {
	ChannelStats(ctx context.Context, channelID int) (*ChannelStats, error)
}
