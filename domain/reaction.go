package domain

import (
	"context"
	"time"
)

// Subject types a Reaction or Comment may point at.
const (
	SubjectVideo   = "video"
	SubjectComment = "comment"
	SubjectTweet   = "tweet"
)

// Reaction polarities.
const (
	PolarityLike    = "like"
	PolarityDislike = "dislike"
)

// Reaction is one user's stance toward one piece of content: a like or a
// dislike of a video, comment or tweet. The compound unique index
// guarantees at most one edge per (subject_type, subject_id, user_id)
// triple, so a user can never like and dislike the same content at once.
// Edges are never updated in place; switching polarity deletes the old
// edge and inserts a new one.
type Reaction struct {
	ID          int    `json:"id"`
	SubjectType string `json:"subject_type" gorm:"type:varchar(16);notNull;uniqueIndex:idx_reaction_subject_user"`
	SubjectID   int    `json:"subject_id" gorm:"notNull;uniqueIndex:idx_reaction_subject_user"`
	UserID      int    `json:"user_id" gorm:"notNull;uniqueIndex:idx_reaction_subject_user;index:idx_reaction_user"`
	Polarity    string `json:"polarity" gorm:"type:varchar(8);notNull"`

	CreatedAt time.Time `json:"created_at"`
}

// ReactionState reports the viewer's stance after a toggle. Both keys are
// always present in responses; after an un-react both are false.
type ReactionState struct {
	Liked    bool `json:"liked"`
	Disliked bool `json:"disliked"`
}

// ReactionSummary is the denormalized reaction data attached to feed
// items. The viewer flags are computed only for authenticated viewers and
// omitted from JSON otherwise.
type ReactionSummary struct {
	LikeCount         int   `json:"likeCount"`
	DislikeCount      int   `json:"dislikeCount"`
	ViewerHasLiked    *bool `json:"viewerHasLiked,omitempty"`
	ViewerHasDisliked *bool `json:"viewerHasDisliked,omitempty"`
}

// ReactionService toggles reaction edges. One code path serves all three
// subject types so like/dislike semantics cannot drift between them.
type ReactionService interface {
	Toggle(ctx context.Context, viewer *User, subjectType string, subjectID int, polarity string) (ReactionState, error)
	LikedVideos(ctx context.Context, viewer *User) ([]VideoView, error)
}

// ValidSubjectType reports whether s names a reactable content kind.
func ValidSubjectType(s string) bool {
	return s == SubjectVideo || s == SubjectComment || s == SubjectTweet
}

// ValidPolarity reports whether p is a known reaction polarity.
func ValidPolarity(p string) bool {
	return p == PolarityLike || p == PolarityDislike
}

// OppositePolarity returns dislike for like and vice versa.
func OppositePolarity(p string) string {
	if p == PolarityLike {
		return PolarityDislike
	}
	return PolarityLike
}
