package crud

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"wtfTube/domain"
	"wtfTube/errs"
)

// TweetService manages Tweets.
// It implements the domain.TweetService interface.
type TweetService struct {
	tweetValidator
}

// tweetValidator runs validations on incoming Tweet data.
// On success, it passes the data on to tweetGorm.
// Otherwise, it returns the error of the validation that has failed.
type tweetValidator struct {
	tweetGorm
}

// tweetGorm runs CRUD operations on the database using incoming Tweet data.
// It assumes that data has been validated.
type tweetGorm struct {
	db *gorm.DB
}

// NewTweetService returns an instance of TweetService.
func NewTweetService(db *gorm.DB) *TweetService {
	return &TweetService{
		tweetValidator{
			tweetGorm{
				db: db,
			},
		},
	}
}

// Ensure the TweetService struct properly implements the domain.TweetService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.TweetService = &TweetService{}

// CreateTweet runs validations needed for creating new Tweet database records.
func (tv *tweetValidator) CreateTweet(ctx context.Context, tweet *domain.Tweet) error {
	err := runTweetValFns(tweet,
		tv.userIdValid,
		tv.contentRequired)
	if err != nil {
		return err
	}
	return tv.tweetGorm.Create(ctx, tweet)
}

// UpdateTweet replaces the content of the viewer's tweet.
func (tv *tweetValidator) UpdateTweet(ctx context.Context, viewer *domain.User, id int, content string) (*domain.Tweet, error) {
	tweet, err := tv.ownedTweet(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, errs.Errorf(errs.EINVALID, "Content is required.")
	}
	tweet.Content = content
	if err := tv.db.WithContext(ctx).Save(tweet).Error; err != nil {
		return nil, err
	}
	return tweet, nil
}

// DeleteTweet deletes the viewer's tweet along with its comments and every
// reaction hanging off the tweet or those comments.
func (tv *tweetValidator) DeleteTweet(ctx context.Context, viewer *domain.User, id int) error {
	tweet, err := tv.ownedTweet(ctx, viewer, id)
	if err != nil {
		return err
	}
	return tv.tweetGorm.Delete(ctx, tweet)
}

// ownedTweet fetches a tweet and checks it belongs to the viewer.
func (tv *tweetValidator) ownedTweet(ctx context.Context, viewer *domain.User, id int) (*domain.Tweet, error) {
	if viewer == nil || viewer.ID <= 0 {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "You must be logged in.")
	}
	if id <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	var tweet domain.Tweet
	err := tv.db.WithContext(ctx).First(&tweet, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Tweet not found.")
		}
		return nil, err
	}
	if tweet.UserID != viewer.ID {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to edit this tweet.")
	}
	return &tweet, nil
}

// runTweetValFns runs any number of functions of type tweetValFn on the
// passed in Tweet object.
func runTweetValFns(tweet *domain.Tweet, fns ...tweetValFn) error {
	for _, fn := range fns {
		if err := fn(tweet); err != nil {
			return err
		}
	}
	return nil
}

// A tweetValFn is any function that takes in a pointer to a domain.Tweet
// object and returns an error.
type tweetValFn func(tweet *domain.Tweet) error

// userIdValid ensures that the userId is not empty.
func (tv *tweetValidator) userIdValid(tweet *domain.Tweet) error {
	if tweet.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is required.")
	}
	return nil
}

// contentRequired makes sure the tweet has content.
func (tv *tweetValidator) contentRequired(tweet *domain.Tweet) error {
	if strings.TrimSpace(tweet.Content) == "" {
		return errs.Errorf(errs.EINVALID, "Content is required.")
	}
	return nil
}

// Create stores the data from the Tweet object in a new database record.
func (tg *tweetGorm) Create(ctx context.Context, tweet *domain.Tweet) error {
	return tg.db.WithContext(ctx).Create(tweet).Error
}

// Delete permanently deletes a Tweet record, its comments and the reactions
// on either, in one transaction.
func (tg *tweetGorm) Delete(ctx context.Context, tweet *domain.Tweet) error {
	return tg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []int
		err := tx.Model(&domain.Comment{}).
			Where("subject_type = ? AND subject_id = ?", domain.SubjectTweet, tweet.ID).
			Pluck("id", &commentIDs).Error
		if err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			err = tx.Where("subject_type = ? AND subject_id IN ?", domain.SubjectComment, commentIDs).
				Delete(&domain.Reaction{}).Error
			if err != nil {
				return err
			}
			if err := tx.Delete(&domain.Comment{}, commentIDs).Error; err != nil {
				return err
			}
		}
		err = tx.Where("subject_type = ? AND subject_id = ?", domain.SubjectTweet, tweet.ID).
			Delete(&domain.Reaction{}).Error
		if err != nil {
			return err
		}
		return tx.Delete(tweet).Error
	})
}
