package crud

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"wtfTube/domain"
	"wtfTube/errs"
)

// CommentService manages Comments.
// It implements the domain.CommentService interface.
type CommentService struct {
	commentValidator
}

// commentValidator runs validations on incoming Comment data.
// On success, it passes the data on to commentGorm.
// Otherwise, it returns the error of the validation that has failed.
type commentValidator struct {
	commentGorm
}

// commentGorm runs CRUD operations on the database using incoming Comment data.
// It assumes that data has been validated.
type commentGorm struct {
	db *gorm.DB
}

// NewCommentService returns an instance of CommentService.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		commentValidator{
			commentGorm{
				db: db,
			},
		},
	}
}

// Ensure the CommentService struct properly implements the domain.CommentService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.CommentService = &CommentService{}

// CreateComment runs validations needed for creating new Comment database records.
func (cv *commentValidator) CreateComment(ctx context.Context, comment *domain.Comment) error {
	err := runCommentValFns(comment,
		cv.userIdValid,
		cv.contentRequired,
		cv.subjectTypeValid,
		cv.subjectIdValid)
	if err != nil {
		return err
	}
	if err := cv.subjectVisible(ctx, comment); err != nil {
		return err
	}
	return cv.commentGorm.Create(ctx, comment)
}

// UpdateComment replaces the content of the viewer's comment.
func (cv *commentValidator) UpdateComment(ctx context.Context, viewer *domain.User, id int, content string) (*domain.Comment, error) {
	comment, err := cv.ownedComment(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, errs.Errorf(errs.EINVALID, "Content is required.")
	}
	comment.Content = content
	if err := cv.db.WithContext(ctx).Save(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment deletes the viewer's comment along with the reactions on it.
func (cv *commentValidator) DeleteComment(ctx context.Context, viewer *domain.User, id int) error {
	comment, err := cv.ownedComment(ctx, viewer, id)
	if err != nil {
		return err
	}
	return cv.commentGorm.Delete(ctx, comment)
}

// ownedComment fetches a comment and checks it belongs to the viewer.
func (cv *commentValidator) ownedComment(ctx context.Context, viewer *domain.User, id int) (*domain.Comment, error) {
	if viewer == nil || viewer.ID <= 0 {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "You must be logged in.")
	}
	if id <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	var comment domain.Comment
	err := cv.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Comment not found.")
		}
		return nil, err
	}
	if comment.UserID != viewer.ID {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to edit this comment.")
	}
	return &comment, nil
}

// subjectVisible makes sure the commented-on content exists and is visible
// to the commenting user.
func (cv *commentValidator) subjectVisible(ctx context.Context, comment *domain.Comment) error {
	var err error
	switch comment.SubjectType {
	case domain.SubjectVideo:
		err = cv.db.WithContext(ctx).
			First(&domain.Video{}, "id = ? AND (is_published = ? OR user_id = ?)", comment.SubjectID, true, comment.UserID).
			Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "Video not found or not available right now.")
		}
	case domain.SubjectTweet:
		err = cv.db.WithContext(ctx).First(&domain.Tweet{}, "id = ?", comment.SubjectID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "Tweet not found.")
		}
	}
	return err
}

// runCommentValFns runs any number of functions of type commentValFn on the
// passed in Comment object.
func runCommentValFns(comment *domain.Comment, fns ...commentValFn) error {
	for _, fn := range fns {
		if err := fn(comment); err != nil {
			return err
		}
	}
	return nil
}

// A commentValFn is any function that takes in a pointer to a domain.Comment
// object and returns an error.
type commentValFn func(comment *domain.Comment) error

// userIdValid ensures that the userId is not empty.
func (cv *commentValidator) userIdValid(comment *domain.Comment) error {
	if comment.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is required.")
	}
	return nil
}

// contentRequired makes sure the comment has content.
func (cv *commentValidator) contentRequired(comment *domain.Comment) error {
	if strings.TrimSpace(comment.Content) == "" {
		return errs.Errorf(errs.EINVALID, "Content is required.")
	}
	return nil
}

// subjectTypeValid makes sure the subject type names a commentable content
// kind. Comments on comments are not a thing.
func (cv *commentValidator) subjectTypeValid(comment *domain.Comment) error {
	if comment.SubjectType != domain.SubjectVideo && comment.SubjectType != domain.SubjectTweet {
		return errs.Errorf(errs.EINVALID, "Invalid content type %q.", comment.SubjectType)
	}
	return nil
}

// subjectIdValid makes sure the subject ID is a positive identifier.
func (cv *commentValidator) subjectIdValid(comment *domain.Comment) error {
	if comment.SubjectID <= 0 {
		return errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	return nil
}

// Create stores the data from the Comment object in a new database record.
func (cg *commentGorm) Create(ctx context.Context, comment *domain.Comment) error {
	return cg.db.WithContext(ctx).Create(comment).Error
}

// Delete permanently deletes a Comment record and the reactions on it,
// in one transaction.
func (cg *commentGorm) Delete(ctx context.Context, comment *domain.Comment) error {
	return cg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("subject_type = ? AND subject_id = ?", domain.SubjectComment, comment.ID).
			Delete(&domain.Reaction{}).Error
		if err != nil {
			return err
		}
		return tx.Delete(comment).Error
	})
}
