package crud

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"wtfTube/domain"
	"wtfTube/errs"
)

func TestReactionToggle_LifeCycle(t *testing.T) {
	db := testDB(t)
	rs := NewReactionService(db, nil)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	video := seedVideo(t, db, owner, "first", true)

	// Like from a clean slate.
	state, err := rs.Toggle(ctx, viewer, domain.SubjectVideo, video.ID, domain.PolarityLike)
	require.NoError(t, err)
	assert.Equal(t, domain.ReactionState{Liked: true, Disliked: false}, state)
	assert.EqualValues(t, 1, countReactions(t, db, domain.SubjectVideo, video.ID, viewer.ID))

	// Like again removes the edge.
	state, err = rs.Toggle(ctx, viewer, domain.SubjectVideo, video.ID, domain.PolarityLike)
	require.NoError(t, err)
	assert.Equal(t, domain.ReactionState{Liked: false, Disliked: false}, state)
	assert.EqualValues(t, 0, countReactions(t, db, domain.SubjectVideo, video.ID, viewer.ID))

	// Dislike from a clean slate.
	state, err = rs.Toggle(ctx, viewer, domain.SubjectVideo, video.ID, domain.PolarityDislike)
	require.NoError(t, err)
	assert.Equal(t, domain.ReactionState{Liked: false, Disliked: true}, state)

	// Like while disliked switches stance, never holds both.
	state, err = rs.Toggle(ctx, viewer, domain.SubjectVideo, video.ID, domain.PolarityLike)
	require.NoError(t, err)
	assert.Equal(t, domain.ReactionState{Liked: true, Disliked: false}, state)
	assert.EqualValues(t, 1, countReactions(t, db, domain.SubjectVideo, video.ID, viewer.ID))
}

func TestReactionToggle_AllSubjectTypes(t *testing.T) {
	db := testDB(t)
	rs := NewReactionService(db, nil)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	video := seedVideo(t, db, owner, "clip", true)
	tweet := seedTweet(t, db, owner, "hello")
	comment := seedComment(t, db, owner, domain.SubjectVideo, video.ID, "nice")

	subjects := map[string]int{
		domain.SubjectVideo:   video.ID,
		domain.SubjectTweet:   tweet.ID,
		domain.SubjectComment: comment.ID,
	}
	for subjectType, id := range subjects {
		state, err := rs.Toggle(ctx, viewer, subjectType, id, domain.PolarityDislike)
		require.NoError(t, err, subjectType)
		assert.True(t, state.Disliked, subjectType)

		state, err = rs.Toggle(ctx, viewer, subjectType, id, domain.PolarityDislike)
		require.NoError(t, err, subjectType)
		assert.False(t, state.Disliked, subjectType)
	}
}

func TestReactionToggle_Validation(t *testing.T) {
	db := testDB(t)
	rs := NewReactionService(db, nil)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	video := seedVideo(t, db, owner, "clip", true)

	_, err := rs.Toggle(ctx, nil, domain.SubjectVideo, video.ID, domain.PolarityLike)
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))

	_, err = rs.Toggle(ctx, viewer, "playlist", video.ID, domain.PolarityLike)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	_, err = rs.Toggle(ctx, viewer, domain.SubjectVideo, video.ID, "meh")
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	_, err = rs.Toggle(ctx, viewer, domain.SubjectVideo, 0, domain.PolarityLike)
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))

	_, err = rs.Toggle(ctx, viewer, domain.SubjectVideo, 9999, domain.PolarityLike)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}

func TestReactionToggle_UnpublishedVideoVisibility(t *testing.T) {
	db := testDB(t)
	rs := NewReactionService(db, nil)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	draft := seedVideo(t, db, owner, "draft", false)

	// Hidden from everyone else.
	_, err := rs.Toggle(ctx, viewer, domain.SubjectVideo, draft.ID, domain.PolarityLike)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))

	// The owner can still react to their own draft.
	state, err := rs.Toggle(ctx, owner, domain.SubjectVideo, draft.ID, domain.PolarityLike)
	require.NoError(t, err)
	assert.True(t, state.Liked)
}

func TestReactionToggle_ConcurrentToggles(t *testing.T) {
	db := testDB(t)
	rs := NewReactionService(db, nil)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	video := seedVideo(t, db, owner, "contested", true)

	const workers = 8
	errCh := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := rs.Toggle(ctx, viewer, domain.SubjectVideo, video.ID, domain.PolarityLike)
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	// A lost race aborts in full and surfaces as retryable internal; it
	// never half-applies.
	for err := range errCh {
		if err != nil {
			assert.Equal(t, errs.EINTERNAL, errs.ErrorCode(err))
		}
	}
	n := countReactions(t, db, domain.SubjectVideo, video.ID, viewer.ID)
	assert.LessOrEqual(t, n, int64(1))
}

func TestReactionToggle_InsertRaceAbortsCleanly(t *testing.T) {
	db := testDB(t)
	rs := NewReactionService(db, nil)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	video := seedVideo(t, db, owner, "contested", true)

	// Slip a conflicting edge into the engine's transaction right before
	// its own insert, the way a concurrent toggle that won the race after
	// the pre-checks would have.
	injected := false
	err := db.Callback().Create().Before("gorm:create").Register("edge_race", func(tx *gorm.DB) {
		if injected {
			return
		}
		if _, ok := tx.Statement.Dest.(*domain.Reaction); !ok {
			return
		}
		injected = true
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO reactions (subject_type, subject_id, user_id, polarity, created_at) VALUES (?, ?, ?, ?, ?)",
			domain.SubjectVideo, video.ID, viewer.ID, domain.PolarityLike, time.Now())
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Callback().Create().Remove("edge_race") })

	_, err = rs.Toggle(ctx, viewer, domain.SubjectVideo, video.ID, domain.PolarityLike)
	require.Error(t, err)
	assert.Equal(t, errs.EINTERNAL, errs.ErrorCode(err))
	// The transaction rolled back in full: the injected edge is gone too.
	assert.EqualValues(t, 0, countReactions(t, db, domain.SubjectVideo, video.ID, viewer.ID))
}

func TestLikedVideos(t *testing.T) {
	db := testDB(t)
	rs := NewReactionService(db, nil)
	owner := seedUser(t, db, "owner")
	viewer := seedUser(t, db, "viewer")
	first := seedVideo(t, db, owner, "first", true)
	second := seedVideo(t, db, owner, "second", true)
	seedVideo(t, db, owner, "never-liked", true)

	_, err := rs.Toggle(ctx, viewer, domain.SubjectVideo, first.ID, domain.PolarityLike)
	require.NoError(t, err)
	_, err = rs.Toggle(ctx, viewer, domain.SubjectVideo, second.ID, domain.PolarityLike)
	require.NoError(t, err)

	videos, err := rs.LikedVideos(ctx, viewer)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	for _, v := range videos {
		assert.Equal(t, "owner", v.Author.Username)
	}

	_, err = rs.LikedVideos(ctx, nil)
	assert.Equal(t, errs.EUNAUTHORIZED, errs.ErrorCode(err))
}
