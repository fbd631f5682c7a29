package crud

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wtfTube/domain"
	"wtfTube/errs"
)

func TestCommentFeed_EmptyIsValid(t *testing.T) {
	db := testDB(t)
	fs := NewFeedService(db)
	owner := seedUser(t, db, "owner")
	video := seedVideo(t, db, owner, "quiet", true)

	page, err := fs.Comments(ctx, nil, domain.SubjectVideo, video.ID, domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, domain.DefaultPageLimit, page.Limit)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 0, page.TotalResults)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestCommentFeed_EnvelopeMath(t *testing.T) {
	db := testDB(t)
	fs := NewFeedService(db)
	owner := seedUser(t, db, "owner")
	video := seedVideo(t, db, owner, "busy", true)
	for i := 0; i < 7; i++ {
		seedComment(t, db, owner, domain.SubjectVideo, video.ID, fmt.Sprintf("comment %d", i))
	}

	page, err := fs.Comments(ctx, nil, domain.SubjectVideo, video.ID, domain.PageRequest{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.Limit)
	assert.Equal(t, 7, page.TotalResults)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 3)
	// Ascending insertion order with the id tie-break: page 2 holds 3..5.
	assert.Equal(t, "comment 3", page.Items[0].Content)
	assert.Equal(t, "comment 5", page.Items[2].Content)

	// A page past the end is empty but keeps the totals.
	page, err = fs.Comments(ctx, nil, domain.SubjectVideo, video.ID, domain.PageRequest{Page: 9, Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 7, page.TotalResults)
}

func TestCommentFeed_ViewerFlags(t *testing.T) {
	db := testDB(t)
	fs := NewFeedService(db)
	rs := NewReactionService(db, nil)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	other := seedUser(t, db, "other")
	video := seedVideo(t, db, owner, "clip", true)
	comment := seedComment(t, db, owner, domain.SubjectVideo, video.ID, "first")

	_, err := rs.Toggle(ctx, viewer, domain.SubjectComment, comment.ID, domain.PolarityLike)
	require.NoError(t, err)
	_, err = rs.Toggle(ctx, other, domain.SubjectComment, comment.ID, domain.PolarityDislike)
	require.NoError(t, err)

	// Anonymous: counts only, no viewer flags.
	page, err := fs.Comments(ctx, nil, domain.SubjectVideo, video.ID, domain.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Items[0].LikeCount)
	assert.Equal(t, 1, page.Items[0].DislikeCount)
	assert.Nil(t, page.Items[0].ViewerHasLiked)
	assert.Nil(t, page.Items[0].ViewerHasDisliked)

	// Authenticated: flags reflect the viewer's own edges.
	page, err = fs.Comments(ctx, viewer, domain.SubjectVideo, video.ID, domain.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].ViewerHasLiked)
	require.NotNil(t, page.Items[0].ViewerHasDisliked)
	assert.True(t, *page.Items[0].ViewerHasLiked)
	assert.False(t, *page.Items[0].ViewerHasDisliked)
}

func TestCommentFeed_Validation(t *testing.T) {
	db := testDB(t)
	fs := NewFeedService(db)
	owner := seedUser(t, db, "owner")
	video := seedVideo(t, db, owner, "clip", true)

	_, err := fs.Comments(ctx, nil, domain.SubjectComment, video.ID, domain.PageRequest{})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	_, err = fs.Comments(ctx, nil, domain.SubjectVideo, 9999, domain.PageRequest{})
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	_, err = fs.Comments(ctx, nil, domain.SubjectVideo, video.ID, domain.PageRequest{SortBy: "owner"})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
}

func TestCommentFeed_ExcludesAuthorlessRows(t *testing.T) {
	db := testDB(t)
	fs := NewFeedService(db)
	owner := seedUser(t, db, "owner")
	ghost := seedUser(t, db, "ghost")
	video := seedVideo(t, db, owner, "clip", true)
	seedComment(t, db, owner, domain.SubjectVideo, video.ID, "kept")
	seedComment(t, db, ghost, domain.SubjectVideo, video.ID, "orphaned")
	require.NoError(t, db.Delete(ghost).Error)

	page, err := fs.Comments(ctx, nil, domain.SubjectVideo, video.ID, domain.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "kept", page.Items[0].Content)
	// The orphan is gone from the totals too, not just the page.
	assert.Equal(t, 1, page.TotalResults)
}

func TestTweetFeed(t *testing.T) {
	db := testDB(t)
	fs := NewFeedService(db)
	owner := seedUser(t, db, "owner")
	seedTweet(t, db, owner, "one")
	seedTweet(t, db, owner, "two")

	page, err := fs.Tweets(ctx, nil, owner.ID, domain.PageRequest{SortType: "desc"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalResults)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "owner", page.Items[0].Author.Username)

	_, err = fs.Tweets(ctx, nil, 9999, domain.PageRequest{})
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestVideoFeed_VisibilityAndQuery(t *testing.T) {
	db := testDB(t)
	fs := NewFeedService(db)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	seedVideo(t, db, owner, "published-cats", true)
	seedVideo(t, db, owner, "draft-cats", false)

	// Strangers see published videos only.
	page, err := fs.Videos(ctx, viewer, domain.VideoFilter{UserID: owner.ID}, domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalResults)
	assert.Equal(t, "published-cats", page.Items[0].Title)

	// The owner sees drafts too.
	page, err = fs.Videos(ctx, owner, domain.VideoFilter{UserID: owner.ID}, domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalResults)

	// The query matches title or description, case-insensitively.
	page, err = fs.Videos(ctx, owner, domain.VideoFilter{UserID: owner.ID, Query: "DRAFT"}, domain.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalResults)
	assert.Equal(t, "draft-cats", page.Items[0].Title)

	// The channel selector is mandatory.
	_, err = fs.Videos(ctx, nil, domain.VideoFilter{}, domain.PageRequest{})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
}

func TestVideoByID(t *testing.T) {
	db := testDB(t)
	fs := NewFeedService(db)
	ss := NewSubscriptionService(db, nil)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	video := seedVideo(t, db, owner, "clip", true)

	_, err := ss.ToggleSubscription(ctx, viewer, owner.ID)
	require.NoError(t, err)

	detail, err := fs.VideoByID(ctx, viewer, video.ID)
	require.NoError(t, err)
	assert.Equal(t, "clip", detail.Title)
	assert.Equal(t, "owner", detail.Channel.Username)
	assert.Equal(t, 1, detail.Channel.SubscribersCount)
	assert.True(t, detail.Channel.IsSubscribed)
	assert.Equal(t, 1, detail.Views)

	// Each watch bumps the counter.
	detail, err = fs.VideoByID(ctx, viewer, video.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.Views)

	// Drafts stay hidden from strangers.
	draft := seedVideo(t, db, owner, "draft", false)
	_, err = fs.VideoByID(ctx, viewer, draft.ID)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
	_, err = fs.VideoByID(ctx, owner, draft.ID)
	require.NoError(t, err)
}
