package crud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wtfTube/domain"
	"wtfTube/errs"
)

func TestCreateComment(t *testing.T) {
	db := testDB(t)
	cs := NewCommentService(db)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	video := seedVideo(t, db, owner, "clip", true)
	tweet := seedTweet(t, db, owner, "hello")

	comment := domain.Comment{
		Content:     "nice",
		SubjectType: domain.SubjectVideo,
		SubjectID:   video.ID,
		UserID:      viewer.ID,
	}
	require.NoError(t, cs.CreateComment(ctx, &comment))
	assert.NotZero(t, comment.ID)

	onTweet := domain.Comment{
		Content:     "also nice",
		SubjectType: domain.SubjectTweet,
		SubjectID:   tweet.ID,
		UserID:      viewer.ID,
	}
	require.NoError(t, cs.CreateComment(ctx, &onTweet))

	// Comments on comments don't exist.
	err := cs.CreateComment(ctx, &domain.Comment{
		Content:     "nope",
		SubjectType: domain.SubjectComment,
		SubjectID:   comment.ID,
		UserID:      viewer.ID,
	})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	// Drafts can't be commented on by strangers.
	draft := seedVideo(t, db, owner, "draft", false)
	err = cs.CreateComment(ctx, &domain.Comment{
		Content:     "sneaky",
		SubjectType: domain.SubjectVideo,
		SubjectID:   draft.ID,
		UserID:      viewer.ID,
	})
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestUpdateAndDeleteComment(t *testing.T) {
	db := testDB(t)
	cs := NewCommentService(db)
	rs := NewReactionService(db, nil)
	owner := seedUser(t, db, "owner")
	stranger := seedUser(t, db, "stranger")
	video := seedVideo(t, db, owner, "clip", true)
	comment := seedComment(t, db, owner, domain.SubjectVideo, video.ID, "typo")

	updated, err := cs.UpdateComment(ctx, owner, comment.ID, "fixed")
	require.NoError(t, err)
	assert.Equal(t, "fixed", updated.Content)

	_, err = cs.UpdateComment(ctx, stranger, comment.ID, "hijack")
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))

	_, err = cs.UpdateComment(ctx, owner, comment.ID, "   ")
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	// Deleting takes the comment's reactions with it.
	_, err = rs.Toggle(ctx, stranger, domain.SubjectComment, comment.ID, domain.PolarityLike)
	require.NoError(t, err)
	require.NoError(t, cs.DeleteComment(ctx, owner, comment.ID))
	var reactions int64
	require.NoError(t, db.Model(&domain.Reaction{}).Count(&reactions).Error)
	assert.Zero(t, reactions)
}
