package crud

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"wtfTube/domain"
	"wtfTube/errs"
)

// FeedService assembles viewer-relative content lists.
// It implements the domain.FeedService interface.
//
// Every feed runs the same fixed pipeline: filter the base collection
// (including visibility rules), inner-join the author (rows whose author is
// gone are excluded from items and totals alike), batch-join reaction
// counts and viewer flags, sort with an id-ascending tie-break so paging
// stays deterministic, then cut the requested page.
type FeedService struct {
	feedGorm
}

type feedGorm struct {
	db *gorm.DB
}

// NewFeedService returns an instance of FeedService.
func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{
		feedGorm{
			db: db,
		},
	}
}

var _ domain.FeedService = &FeedService{}

// sortColumns maps public sort field names onto table columns. Only fields
// in the PageRequest allow-list ever reach this map.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// orderClause builds the ORDER BY for a feed query. Ties on the sort field
// break by id ascending, keeping pagination stable across pages.
func orderClause(table string, req domain.PageRequest) string {
	dir := "ASC"
	if req.SortType == domain.SortDesc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s.%s %s, %s.id ASC", table, sortColumns[req.SortBy], dir, table)
}

type commentRow struct {
	ID             int
	Content        string
	SubjectType    string
	SubjectID      int
	CreatedAt      time.Time
	AuthorUsername string
	AuthorFullName string
	AuthorAvatar   string
}

type tweetRow struct {
	ID             int
	Content        string
	CreatedAt      time.Time
	AuthorUsername string
	AuthorFullName string
	AuthorAvatar   string
}

type videoRow struct {
	ID             int
	Title          string
	Description    string
	Thumbnail      string
	Duration       int
	Views          int
	IsPublished    bool
	CreatedAt      time.Time
	AuthorUsername string
	AuthorFullName string
	AuthorAvatar   string
}

func (r videoRow) view() domain.VideoView {
	return domain.VideoView{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Thumbnail:   r.Thumbnail,
		Duration:    r.Duration,
		Views:       r.Views,
		IsPublished: r.IsPublished,
		CreatedAt:   r.CreatedAt,
		Author: domain.Author{
			Username: r.AuthorUsername,
			FullName: r.AuthorFullName,
			Avatar:   r.AuthorAvatar,
		},
	}
}

// Comments lists the comments of a video or tweet as a page of CommentViews.
func (fg *feedGorm) Comments(ctx context.Context, viewer *domain.User, subjectType string, subjectID int, req domain.PageRequest) (*domain.Page[domain.CommentView], error) {
	if subjectType != domain.SubjectVideo && subjectType != domain.SubjectTweet {
		return nil, errs.Errorf(errs.EINVALID, "Comments can only be listed for videos and tweets.")
	}
	if subjectID <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	req, err := req.Normalize(domain.FeedSortFields...)
	if err != nil {
		return nil, err
	}
	if err := fg.subjectExists(ctx, subjectType, subjectID); err != nil {
		return nil, err
	}

	base := func() *gorm.DB {
		return fg.db.WithContext(ctx).
			Model(&domain.Comment{}).
			Joins("JOIN users ON users.id = comments.user_id").
			Where("comments.subject_type = ? AND comments.subject_id = ?", subjectType, subjectID)
	}
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}
	var rows []commentRow
	err = base().
		Select("comments.id, comments.content, comments.subject_type, comments.subject_id, comments.created_at, " +
			"users.username AS author_username, users.full_name AS author_full_name, users.avatar AS author_avatar").
		Order(orderClause("comments", req)).
		Offset(req.Offset()).
		Limit(req.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	summaries, err := fg.reactionSummaries(ctx, domain.SubjectComment, ids, viewer)
	if err != nil {
		return nil, err
	}

	items := make([]domain.CommentView, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.CommentView{
			ID:          row.ID,
			Content:     row.Content,
			SubjectType: row.SubjectType,
			SubjectID:   row.SubjectID,
			CreatedAt:   row.CreatedAt,
			Author: domain.Author{
				Username: row.AuthorUsername,
				FullName: row.AuthorFullName,
				Avatar:   row.AuthorAvatar,
			},
			ReactionSummary: summaries[row.ID],
		})
	}
	return domain.NewPage(items, int(total), req), nil
}

// Tweets lists a user's tweets as a page of TweetViews.
func (fg *feedGorm) Tweets(ctx context.Context, viewer *domain.User, userID int, req domain.PageRequest) (*domain.Page[domain.TweetView], error) {
	if userID <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	req, err := req.Normalize(domain.FeedSortFields...)
	if err != nil {
		return nil, err
	}
	if err := fg.userExists(ctx, userID); err != nil {
		return nil, err
	}

	base := func() *gorm.DB {
		return fg.db.WithContext(ctx).
			Model(&domain.Tweet{}).
			Joins("JOIN users ON users.id = tweets.user_id").
			Where("tweets.user_id = ?", userID)
	}
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}
	var rows []tweetRow
	err = base().
		Select("tweets.id, tweets.content, tweets.created_at, " +
			"users.username AS author_username, users.full_name AS author_full_name, users.avatar AS author_avatar").
		Order(orderClause("tweets", req)).
		Offset(req.Offset()).
		Limit(req.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	summaries, err := fg.reactionSummaries(ctx, domain.SubjectTweet, ids, viewer)
	if err != nil {
		return nil, err
	}

	items := make([]domain.TweetView, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.TweetView{
			ID:        row.ID,
			Content:   row.Content,
			CreatedAt: row.CreatedAt,
			Author: domain.Author{
				Username: row.AuthorUsername,
				FullName: row.AuthorFullName,
				Avatar:   row.AuthorAvatar,
			},
			ReactionSummary: summaries[row.ID],
		})
	}
	return domain.NewPage(items, int(total), req), nil
}

// Videos lists a channel's videos as a page of VideoViews. Unpublished
// videos only show up for their owner; the optional query matches title or
// description case-insensitively.
func (fg *feedGorm) Videos(ctx context.Context, viewer *domain.User, filter domain.VideoFilter, req domain.PageRequest) (*domain.Page[domain.VideoView], error) {
	if filter.UserID <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "User ID is required in the query parameters.")
	}
	req, err := req.Normalize(domain.FeedSortFields...)
	if err != nil {
		return nil, err
	}
	if err := fg.userExists(ctx, filter.UserID); err != nil {
		return nil, err
	}

	viewerID := 0
	if viewer != nil {
		viewerID = viewer.ID
	}
	base := func() *gorm.DB {
		q := fg.db.WithContext(ctx).
			Model(&domain.Video{}).
			Joins("JOIN users ON users.id = videos.user_id").
			Where("videos.user_id = ?", filter.UserID).
			Where("videos.is_published = ? OR videos.user_id = ?", true, viewerID)
		if filter.Query != "" {
			pattern := "%" + strings.ToLower(filter.Query) + "%"
			q = q.Where("LOWER(videos.title) LIKE ? OR LOWER(videos.description) LIKE ?", pattern, pattern)
		}
		return q
	}
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}
	var rows []videoRow
	err = base().
		Select("videos.id, videos.title, videos.description, videos.thumbnail, videos.duration, videos.views, videos.is_published, videos.created_at, " +
			"users.username AS author_username, users.full_name AS author_full_name, users.avatar AS author_avatar").
		Order(orderClause("videos", req)).
		Offset(req.Offset()).
		Limit(req.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	summaries, err := fg.reactionSummaries(ctx, domain.SubjectVideo, ids, viewer)
	if err != nil {
		return nil, err
	}

	items := make([]domain.VideoView, 0, len(rows))
	for _, row := range rows {
		view := row.view()
		view.ReactionSummary = summaries[row.ID]
		items = append(items, view)
	}
	return domain.NewPage(items, int(total), req), nil
}

// VideoByID returns the watch-page view of a single video and counts the
// view. The channel sub-document carries the owner's subscriber count and
// the viewer's subscription state.
func (fg *feedGorm) VideoByID(ctx context.Context, viewer *domain.User, id int) (*domain.VideoDetail, error) {
	if id <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	viewerID := 0
	if viewer != nil {
		viewerID = viewer.ID
	}

	var video domain.Video
	err := fg.db.WithContext(ctx).
		First(&video, "id = ? AND (is_published = ? OR user_id = ?)", id, true, viewerID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Video not found or not available right now.")
		}
		return nil, err
	}

	var owner domain.User
	err = fg.db.WithContext(ctx).First(&owner, "id = ?", video.UserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Author join failure: the video is not served with a null channel.
			return nil, errs.Errorf(errs.ENOTFOUND, "Video not found or not available right now.")
		}
		return nil, err
	}

	var subscriberCount int64
	err = fg.db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("channel_id = ?", owner.ID).
		Count(&subscriberCount).Error
	if err != nil {
		return nil, err
	}
	isSubscribed := false
	if viewer != nil {
		var n int64
		err = fg.db.WithContext(ctx).
			Model(&domain.Subscription{}).
			Where("subscriber_id = ? AND channel_id = ?", viewer.ID, owner.ID).
			Count(&n).Error
		if err != nil {
			return nil, err
		}
		isSubscribed = n > 0
	}

	summaries, err := fg.reactionSummaries(ctx, domain.SubjectVideo, []int{video.ID}, viewer)
	if err != nil {
		return nil, err
	}

	// Count the view. Best-effort relative to the read: the watch page is
	// served even if the counter update loses a race.
	err = fg.db.WithContext(ctx).
		Model(&domain.Video{}).
		Where("id = ?", video.ID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return nil, err
	}

	return &domain.VideoDetail{
		ID:          video.ID,
		Title:       video.Title,
		Description: video.Description,
		VideoFile:   video.VideoFile,
		Thumbnail:   video.Thumbnail,
		Duration:    video.Duration,
		Views:       video.Views + 1,
		IsPublished: video.IsPublished,
		CreatedAt:   video.CreatedAt,
		Channel: domain.Channel{
			Author: domain.Author{
				Username: owner.Username,
				FullName: owner.FullName,
				Avatar:   owner.Avatar,
			},
			SubscribersCount: int(subscriberCount),
			IsSubscribed:     isSubscribed,
		},
		ReactionSummary: summaries[video.ID],
	}, nil
}

// reactionSummaries batch-loads reaction counts for a set of subjects of
// one kind and, for authenticated viewers, the viewer's own stance. Every
// requested id gets a summary, zero-valued when the subject has no
// reactions.
func (fg *feedGorm) reactionSummaries(ctx context.Context, subjectType string, ids []int, viewer *domain.User) (map[int]domain.ReactionSummary, error) {
	summaries := make(map[int]domain.ReactionSummary, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}
	for _, id := range ids {
		s := domain.ReactionSummary{}
		if viewer != nil {
			s.ViewerHasLiked = boolPtr(false)
			s.ViewerHasDisliked = boolPtr(false)
		}
		summaries[id] = s
	}

	type countRow struct {
		SubjectID int
		Polarity  string
		N         int
	}
	var counts []countRow
	err := fg.db.WithContext(ctx).
		Model(&domain.Reaction{}).
		Select("subject_id, polarity, COUNT(*) AS n").
		Where("subject_type = ? AND subject_id IN ?", subjectType, ids).
		Group("subject_id").
		Group("polarity").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		s := summaries[c.SubjectID]
		if c.Polarity == domain.PolarityLike {
			s.LikeCount = c.N
		} else {
			s.DislikeCount = c.N
		}
		summaries[c.SubjectID] = s
	}

	if viewer != nil {
		var mine []domain.Reaction
		err := fg.db.WithContext(ctx).
			Where("subject_type = ? AND subject_id IN ? AND user_id = ?", subjectType, ids, viewer.ID).
			Find(&mine).Error
		if err != nil {
			return nil, err
		}
		for _, edge := range mine {
			s := summaries[edge.SubjectID]
			if edge.Polarity == domain.PolarityLike {
				s.ViewerHasLiked = boolPtr(true)
			} else {
				s.ViewerHasDisliked = boolPtr(true)
			}
			summaries[edge.SubjectID] = s
		}
	}
	return summaries, nil
}

// subjectExists checks the base subject of a comment feed.
func (fg *feedGorm) subjectExists(ctx context.Context, subjectType string, subjectID int) error {
	var err error
	switch subjectType {
	case domain.SubjectVideo:
		err = fg.db.WithContext(ctx).First(&domain.Video{}, "id = ?", subjectID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "Video not found.")
		}
	case domain.SubjectTweet:
		err = fg.db.WithContext(ctx).First(&domain.Tweet{}, "id = ?", subjectID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "Tweet not found.")
		}
	}
	return err
}

func (fg *feedGorm) userExists(ctx context.Context, userID int) error {
	err := fg.db.WithContext(ctx).First(&domain.User{}, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.Errorf(errs.ENOTFOUND, "Channel not found.")
	}
	return err
}

func boolPtr(b bool) *bool {
	return &b
}
