package crud

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"wtfTube/domain"
	"wtfTube/errs"
)

// StatsService computes channel dashboard counters.
// It implements the domain.StatsService interface.
//
// The counters are the degenerate case of the feed join pattern: the same
// reaction/subscription joins, collapsed to sums instead of paginated
// rows. A channel with no videos, subscribers or reactions yields all-zero
// counters, not an error. Results sit behind a short-TTL cache because the
// dashboard tolerates slightly stale numbers.
type StatsService struct {
	statsGorm
}

type statsGorm struct {
	db    *gorm.DB
	cache *redis.Client
	ttl   time.Duration
}

// NewStatsService returns an instance of StatsService. cache may be nil,
// in which case every call recomputes.
func NewStatsService(db *gorm.DB, cache *redis.Client, ttl time.Duration) *StatsService {
	return &StatsService{
		statsGorm{
			db:    db,
			cache: cache,
			ttl:   ttl,
		},
	}
}

var _ domain.StatsService = &StatsService{}

// ChannelStats returns the aggregate counters of a channel.
func (sg *statsGorm) ChannelStats(ctx context.Context, channelID int) (*domain.ChannelStats, error) {
	if channelID <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}

	key := fmt.Sprintf("wtftube:stats:channel:%d", channelID)
	if sg.cache != nil {
		if data, err := sg.cache.Get(ctx, key).Bytes(); err == nil {
			var cached domain.ChannelStats
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	stats, err := sg.compute(ctx, channelID)
	if err != nil {
		return nil, err
	}

	if sg.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			sg.cache.Set(ctx, key, payload, sg.ttl)
		}
	}
	return stats, nil
}

func (sg *statsGorm) compute(ctx context.Context, channelID int) (*domain.ChannelStats, error) {
	var stats domain.ChannelStats

	var totalViews int64
	err := sg.db.WithContext(ctx).
		Model(&domain.Video{}).
		Where("user_id = ?", channelID).
		Select("COALESCE(SUM(views), 0)").
		Scan(&totalViews).Error
	if err != nil {
		return nil, err
	}
	stats.TotalViews = int(totalViews)

	var totalVideos int64
	err = sg.db.WithContext(ctx).
		Model(&domain.Video{}).
		Where("user_id = ?", channelID).
		Count(&totalVideos).Error
	if err != nil {
		return nil, err
	}
	stats.TotalVideos = int(totalVideos)

	var totalSubscribers int64
	err = sg.db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&totalSubscribers).Error
	if err != nil {
		return nil, err
	}
	stats.TotalSubscribers = int(totalSubscribers)

	videoLikes, err := sg.reactionsReceived(ctx, channelID, domain.SubjectVideo, domain.PolarityLike)
	if err != nil {
		return nil, err
	}
	commentLikes, err := sg.reactionsReceived(ctx, channelID, domain.SubjectComment, domain.PolarityLike)
	if err != nil {
		return nil, err
	}
	tweetLikes, err := sg.reactionsReceived(ctx, channelID, domain.SubjectTweet, domain.PolarityLike)
	if err != nil {
		return nil, err
	}
	videoDislikes, err := sg.reactionsReceived(ctx, channelID, domain.SubjectVideo, domain.PolarityDislike)
	if err != nil {
		return nil, err
	}
	commentDislikes, err := sg.reactionsReceived(ctx, channelID, domain.SubjectComment, domain.PolarityDislike)
	if err != nil {
		return nil, err
	}
	tweetDislikes, err := sg.reactionsReceived(ctx, channelID, domain.SubjectTweet, domain.PolarityDislike)
	if err != nil {
		return nil, err
	}

	stats.VideoLikes = videoLikes
	stats.CommentLikes = commentLikes
	stats.TweetLikes = tweetLikes
	stats.TotalLikes = videoLikes + commentLikes + tweetLikes
	stats.VideoDislikes = videoDislikes
	stats.CommentDislikes = commentDislikes
	stats.TweetDislikes = tweetDislikes
	stats.TotalDislikes = videoDislikes + commentDislikes + tweetDislikes
	return &stats, nil
}

// reactionsReceived counts reactions of one polarity received on the
// channel owner's content of one kind.
func (sg *statsGorm) reactionsReceived(ctx context.Context, channelID int, subjectType, polarity string) (int, error) {
	q := sg.db.WithContext(ctx).
		Model(&domain.Reaction{}).
		Where("reactions.subject_type = ? AND reactions.polarity = ?", subjectType, polarity)
	switch subjectType {
	case domain.SubjectVideo:
		q = q.Joins("JOIN videos ON videos.id = reactions.subject_id").
			Where("videos.user_id = ?", channelID)
	case domain.SubjectComment:
		q = q.Joins("JOIN comments ON comments.id = reactions.subject_id").
			Where("comments.user_id = ?", channelID)
	case domain.SubjectTweet:
		q = q.Joins("JOIN tweets ON tweets.id = reactions.subject_id").
			Where("tweets.user_id = ?", channelID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}
