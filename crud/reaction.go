package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"wtfTube/domain"
	"wtfTube/errs"
	"wtfTube/events"
)

// ReactionService manages Reactions.
// It implements the domain.ReactionService interface.
type ReactionService struct {
	reactionValidator
}

// reactionValidator runs validations on incoming reaction data.
// On success, it passes the data on to reactionGorm.
// Otherwise, it returns the error of the validation that has failed.
type reactionValidator struct {
	reactionGorm
}

// reactionGorm runs the toggle against the database. It assumes that data
// has been validated and the subject is visible to the viewer.
type reactionGorm struct {
	db     *gorm.DB
	events *events.Publisher
}

// NewReactionService returns an instance of ReactionService.
func NewReactionService(db *gorm.DB, pub *events.Publisher) *ReactionService {
	return &ReactionService{
		reactionValidator{
			reactionGorm{
				db:     db,
				events: pub,
			},
		},
	}
}

// Ensure the ReactionService struct properly implements the domain.ReactionService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.ReactionService = &ReactionService{}

// Toggle runs validations needed for toggling a reaction, then applies the
// toggle. The same code path serves videos, comments and tweets.
func (rv *reactionValidator) Toggle(ctx context.Context, viewer *domain.User, subjectType string, subjectID int, polarity string) (domain.ReactionState, error) {
	if viewer == nil || viewer.ID <= 0 {
		return domain.ReactionState{}, errs.Errorf(errs.EUNAUTHORIZED, "You must be logged in to react.")
	}
	reaction := &domain.Reaction{
		SubjectType: subjectType,
		SubjectID:   subjectID,
		UserID:      viewer.ID,
		Polarity:    polarity,
	}
	err := runReactionValFns(ctx, reaction,
		rv.subjectTypeValid,
		rv.polarityValid,
		rv.subjectIdValid,
		rv.subjectVisible)
	if err != nil {
		return domain.ReactionState{}, err
	}
	return rv.reactionGorm.toggle(ctx, reaction)
}

// runReactionValFns runs any number of functions of type reactionValFn on the
// passed in Reaction object. If none of them returns an error, it returns nil.
// Otherwise, it returns the respective error.
func runReactionValFns(ctx context.Context, reaction *domain.Reaction, fns ...reactionValFn) error {
	for _, fn := range fns {
		if err := fn(ctx, reaction); err != nil {
			return err
		}
	}
	return nil
}

// A reactionValFn is any function that takes in a pointer to a domain.Reaction
// object and returns an error.
type reactionValFn func(ctx context.Context, reaction *domain.Reaction) error

// subjectTypeValid makes sure the subject type names a reactable content kind.
func (rv *reactionValidator) subjectTypeValid(_ context.Context, reaction *domain.Reaction) error {
	if !domain.ValidSubjectType(reaction.SubjectType) {
		return errs.Errorf(errs.EINVALID, "Invalid content type %q.", reaction.SubjectType)
	}
	return nil
}

// polarityValid makes sure the polarity is like or dislike.
func (rv *reactionValidator) polarityValid(_ context.Context, reaction *domain.Reaction) error {
	if !domain.ValidPolarity(reaction.Polarity) {
		return errs.Errorf(errs.EINVALID, "Invalid reaction %q.", reaction.Polarity)
	}
	return nil
}

// subjectIdValid makes sure the subject ID is a positive identifier.
func (rv *reactionValidator) subjectIdValid(_ context.Context, reaction *domain.Reaction) error {
	if reaction.SubjectID <= 0 {
		return errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	return nil
}

// subjectVisible makes sure the reacted-to content exists and is visible to
// the reacting user. Unpublished videos are visible to their owner only.
func (rv *reactionValidator) subjectVisible(ctx context.Context, reaction *domain.Reaction) error {
	var err error
	switch reaction.SubjectType {
	case domain.SubjectVideo:
		err = rv.db.WithContext(ctx).
			First(&domain.Video{}, "id = ? AND (is_published = ? OR user_id = ?)", reaction.SubjectID, true, reaction.UserID).
			Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "Video not found or not available right now.")
		}
	case domain.SubjectComment:
		err = rv.db.WithContext(ctx).First(&domain.Comment{}, "id = ?", reaction.SubjectID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "Comment not found.")
		}
	case domain.SubjectTweet:
		err = rv.db.WithContext(ctx).First(&domain.Tweet{}, "id = ?", reaction.SubjectID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "Tweet not found.")
		}
	}
	return err
}

// toggle applies the reaction state machine inside one transaction:
//
//  1. an existing edge of the opposite polarity is deleted (the user is
//     switching stance),
//  2. an existing edge of the same polarity is deleted and nothing is
//     inserted (un-react),
//  3. otherwise a fresh edge is inserted.
//
// Edges are never updated in place. The compound unique index on
// (subject_type, subject_id, user_id) is the only guard against two
// concurrent inserts; a duplicate-key error here means another toggle won
// the race after our pre-checks, so the transaction aborts in full and the
// caller may retry.
func (rg *reactionGorm) toggle(ctx context.Context, reaction *domain.Reaction) (domain.ReactionState, error) {
	var state domain.ReactionState
	err := rg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var opposite domain.Reaction
		err := tx.
			Where("subject_type = ? AND subject_id = ? AND user_id = ? AND polarity = ?",
				reaction.SubjectType, reaction.SubjectID, reaction.UserID, domain.OppositePolarity(reaction.Polarity)).
			First(&opposite).Error
		if err == nil {
			if err := tx.Delete(&opposite).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var same domain.Reaction
		err = tx.
			Where("subject_type = ? AND subject_id = ? AND user_id = ? AND polarity = ?",
				reaction.SubjectType, reaction.SubjectID, reaction.UserID, reaction.Polarity).
			First(&same).Error
		if err == nil {
			// Un-react: remove the edge, insert nothing.
			return tx.Delete(&same).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		edge := domain.Reaction{
			SubjectType: reaction.SubjectType,
			SubjectID:   reaction.SubjectID,
			UserID:      reaction.UserID,
			Polarity:    reaction.Polarity,
		}
		if err := tx.Create(&edge).Error; err != nil {
			return err
		}
		state.Liked = reaction.Polarity == domain.PolarityLike
		state.Disliked = reaction.Polarity == domain.PolarityDislike
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ReactionState{}, errs.Errorf(errs.EINTERNAL, "The reaction was changed concurrently, please retry.")
		}
		if errs.ErrorCode(err) != errs.EINTERNAL {
			return domain.ReactionState{}, err
		}
		return domain.ReactionState{}, errs.Errorf(errs.EINTERNAL, "Something went wrong while toggling the reaction.")
	}
	rg.events.ReactionToggled(reaction.SubjectType, reaction.SubjectID, reaction.UserID, state)
	return state, nil
}

// LikedVideos retrieves the videos the viewer has liked, newest like first,
// each with its owner's public fields resolved.
func (rg *reactionGorm) LikedVideos(ctx context.Context, viewer *domain.User) ([]domain.VideoView, error) {
	if viewer == nil || viewer.ID <= 0 {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "You must be logged in to list liked videos.")
	}
	var rows []videoRow
	err := rg.db.WithContext(ctx).
		Model(&domain.Reaction{}).
		Select("videos.*, users.username AS author_username, users.full_name AS author_full_name, users.avatar AS author_avatar").
		Joins("JOIN videos ON videos.id = reactions.subject_id").
		Joins("JOIN users ON users.id = videos.user_id").
		Where("reactions.subject_type = ? AND reactions.polarity = ? AND reactions.user_id = ?",
			domain.SubjectVideo, domain.PolarityLike, viewer.ID).
		Order("reactions.created_at DESC, reactions.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	views := make([]domain.VideoView, 0, len(rows))
	for _, row := range rows {
		views = append(views, row.view())
	}
	return views, nil
}
