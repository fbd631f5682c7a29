package crud

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"wtfTube/domain"
	"wtfTube/errs"
)

// VideoService manages Videos.
// It implements the domain.VideoService interface.
type VideoService struct {
	videoValidator
}

// videoValidator runs validations on incoming Video data.
// On success, it passes the data on to videoGorm.
// Otherwise, it returns the error of the validation that has failed.
type videoValidator struct {
	videoGorm
}

// videoGorm runs CRUD operations on the database using incoming Video data.
// It assumes that data has been validated.
type videoGorm struct {
	db *gorm.DB
}

// NewVideoService returns an instance of VideoService.
func NewVideoService(db *gorm.DB) *VideoService {
	return &VideoService{
		videoValidator{
			videoGorm{
				db: db,
			},
		},
	}
}

// Ensure the VideoService struct properly implements the domain.VideoService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.VideoService = &VideoService{}

// CreateVideo runs validations needed for creating new Video database records.
func (vv *videoValidator) CreateVideo(ctx context.Context, video *domain.Video) error {
	err := runVideoValFns(video,
		vv.userIdValid,
		vv.titleRequired,
		vv.mediaRequired)
	if err != nil {
		return err
	}
	return vv.videoGorm.Create(ctx, video)
}

// UpdateVideo applies the non-nil fields of upd to the viewer's video.
func (vv *videoValidator) UpdateVideo(ctx context.Context, viewer *domain.User, id int, upd *domain.VideoUpdate) (*domain.Video, error) {
	video, err := vv.ownedVideo(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if upd.Title != nil {
		if strings.TrimSpace(*upd.Title) == "" {
			return nil, errs.Errorf(errs.EINVALID, "Title must not be empty.")
		}
		video.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		video.Description = *upd.Description
	}
	if upd.Thumbnail != nil {
		video.Thumbnail = *upd.Thumbnail
	}
	if err := vv.videoGorm.Save(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// TogglePublish flips the publication flag of the viewer's video and
// reports the new state.
func (vv *videoValidator) TogglePublish(ctx context.Context, viewer *domain.User, id int) (bool, error) {
	video, err := vv.ownedVideo(ctx, viewer, id)
	if err != nil {
		return false, err
	}
	video.IsPublished = !video.IsPublished
	if err := vv.videoGorm.Save(ctx, video); err != nil {
		return false, err
	}
	return video.IsPublished, nil
}

// DeleteVideo deletes the viewer's video along with its comments and every
// reaction hanging off the video or those comments.
func (vv *videoValidator) DeleteVideo(ctx context.Context, viewer *domain.User, id int) error {
	video, err := vv.ownedVideo(ctx, viewer, id)
	if err != nil {
		return err
	}
	return vv.videoGorm.Delete(ctx, video)
}

// ownedVideo fetches a video and checks it belongs to the viewer.
func (vv *videoValidator) ownedVideo(ctx context.Context, viewer *domain.User, id int) (*domain.Video, error) {
	if viewer == nil || viewer.ID <= 0 {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "You must be logged in.")
	}
	if id <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	var video domain.Video
	err := vv.db.WithContext(ctx).First(&video, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Video not found.")
		}
		return nil, err
	}
	if video.UserID != viewer.ID {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to edit this video.")
	}
	return &video, nil
}

// runVideoValFns runs any number of functions of type videoValFn on the
// passed in Video object.
func runVideoValFns(video *domain.Video, fns ...videoValFn) error {
	for _, fn := range fns {
		if err := fn(video); err != nil {
			return err
		}
	}
	return nil
}

// A videoValFn is any function that takes in a pointer to a domain.Video
// object and returns an error.
type videoValFn func(video *domain.Video) error

// userIdValid ensures that the userId is not empty.
func (vv *videoValidator) userIdValid(video *domain.Video) error {
	if video.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is required.")
	}
	return nil
}

// titleRequired makes sure the video carries a title and description.
func (vv *videoValidator) titleRequired(video *domain.Video) error {
	if strings.TrimSpace(video.Title) == "" || strings.TrimSpace(video.Description) == "" {
		return errs.Errorf(errs.EINVALID, "Title and description are required.")
	}
	return nil
}

// mediaRequired makes sure the media store handed back both URLs before
// the record is created.
func (vv *videoValidator) mediaRequired(video *domain.Video) error {
	if video.VideoFile == "" || video.Thumbnail == "" {
		return errs.Errorf(errs.EINVALID, "Video file and thumbnail are required.")
	}
	return nil
}

// Create stores the data from the Video object in a new database record.
func (vg *videoGorm) Create(ctx context.Context, video *domain.Video) error {
	return vg.db.WithContext(ctx).Create(video).Error
}

// Save persists an updated Video record.
func (vg *videoGorm) Save(ctx context.Context, video *domain.Video) error {
	return vg.db.WithContext(ctx).Save(video).Error
}

// Delete permanently deletes a Video record and cascades to its comments,
// the reactions on the video and the reactions on those comments, all in
// one transaction.
func (vg *videoGorm) Delete(ctx context.Context, video *domain.Video) error {
	return vg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []int
		err := tx.Model(&domain.Comment{}).
			Where("subject_type = ? AND subject_id = ?", domain.SubjectVideo, video.ID).
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
		err = tx.Where("subject_type = ? AND subject_id = ?", domain.SubjectVideo, video.ID).
			Delete(&domain.Reaction{}).Error
		if err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM playlist_videos WHERE video_id = ?", video.ID).Error; err != nil {
			return err
		}
		return tx.Delete(video).Error
	})
}
