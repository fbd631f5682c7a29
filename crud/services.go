package crud

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"wtfTube/events"
)

// A ServicesConfig is any function that takes in a pointer to a Services
// object and returns an error. It's basically just wrapping the constructor
// method of any given crud service. It exists to be able to easily create
// the crud services using functional options in main.go.
type ServicesConfig func(*Services) error

// Services is a container object holding pointers to all the crud services.
// The crud services all share the database connection provided by Services.
type Services struct {
	db           *gorm.DB
	User         *UserService
	Video        *VideoService
	Comment      *CommentService
	Tweet        *TweetService
	Reaction     *ReactionService
	Subscription *SubscriptionService
	Playlist     *PlaylistService
	Feed         *FeedService
	Stats        *StatsService
}

// NewServices returns a new Services object, containing any crud services
// it's told to create by one of the passed in ServicesConfig functions.
// It shares the passed in database connection with any crud service it creates.
func NewServices(db *gorm.DB, cfgs ...ServicesConfig) (*Services, error) {
	s := Services{
		db: db,
	}
	for _, cfg := range cfgs {
		if err := cfg(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// WithUser wraps the constructor of UserService, NewUserService.
func WithUser() ServicesConfig {
	return func(s *Services) error {
		s.User = NewUserService(s.db)
		return nil
	}
}

// WithVideo wraps the constructor of VideoService, NewVideoService.
func WithVideo() ServicesConfig {
	return func(s *Services) error {
		s.Video = NewVideoService(s.db)
		return nil
	}
}

// WithComment wraps the constructor of CommentService, NewCommentService.
func WithComment() ServicesConfig {
	return func(s *Services) error {
		s.Comment = NewCommentService(s.db)
		return nil
	}
}

// WithTweet wraps the constructor of TweetService, NewTweetService.
func WithTweet() ServicesConfig {
	return func(s *Services) error {
		s.Tweet = NewTweetService(s.db)
		return nil
	}
}

// WithReaction wraps the constructor of ReactionService, NewReactionService.
// The publisher may be nil when no broker is configured.
func WithReaction(pub *events.Publisher) ServicesConfig {
	return func(s *Services) error {
		s.Reaction = NewReactionService(s.db, pub)
		return nil
	}
}

// WithSubscription wraps the constructor of SubscriptionService, NewSubscriptionService.
func WithSubscription(pub *events.Publisher) ServicesConfig {
	return func(s *Services) error {
		s.Subscription = NewSubscriptionService(s.db, pub)
		return nil
	}
}

// WithPlaylist wraps the constructor of PlaylistService, NewPlaylistService.
func WithPlaylist() ServicesConfig {
	return func(s *Services) error {
		s.Playlist = NewPlaylistService(s.db)
		return nil
	}
}

// WithFeed wraps the constructor of FeedService, NewFeedService.
func WithFeed() ServicesConfig {
	return func(s *Services) error {
		s.Feed = NewFeedService(s.db)
		return nil
	}
}

// WithStats wraps the constructor of StatsService, NewStatsService.
// The cache client may be nil, in which case every call recomputes.
func WithStats(cache *redis.Client, ttl time.Duration) ServicesConfig {
	return func(s *Services) error {
		s.Stats = NewStatsService(s.db, cache, ttl)
		return nil
	}
}
