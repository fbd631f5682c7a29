package crud

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"wtfTube/domain"
	"wtfTube/errs"
)

// PlaylistService manages Playlists.
// It implements the domain.PlaylistService interface.
type PlaylistService struct {
	playlistValidator
}

// playlistValidator runs validations on incoming Playlist data.
// On success, it passes the data on to playlistGorm.
type playlistValidator struct {
	playlistGorm
}

type playlistGorm struct {
	db *gorm.DB
}

// NewPlaylistService returns an instance of PlaylistService.
func NewPlaylistService(db *gorm.DB) *PlaylistService {
	return &PlaylistService{
		playlistValidator{
			playlistGorm{
				db: db,
			},
		},
	}
}

var _ domain.PlaylistService = &PlaylistService{}

// CreatePlaylist runs validations needed for creating new Playlist records.
func (pv *playlistValidator) CreatePlaylist(ctx context.Context, playlist *domain.Playlist) error {
	if playlist.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "User ID is required.")
	}
	if strings.TrimSpace(playlist.Name) == "" || strings.TrimSpace(playlist.Description) == "" {
		return errs.Errorf(errs.EINVALID, "Name and description are required.")
	}
	return pv.db.WithContext(ctx).Create(playlist).Error
}

// PlaylistByID retrieves a playlist with its videos preloaded. Unpublished
// videos in the list stay visible to the playlist owner only.
func (pg *playlistGorm) PlaylistByID(ctx context.Context, viewer *domain.User, id int) (*domain.Playlist, error) {
	if id <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	viewerID := 0
	if viewer != nil {
		viewerID = viewer.ID
	}
	var playlist domain.Playlist
	err := pg.db.WithContext(ctx).
		Preload("Videos", "is_published = ? OR user_id = ?", true, viewerID).
		First(&playlist, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Playlist not found.")
		}
		return nil, err
	}
	return &playlist, nil
}

// PlaylistsByUserID retrieves all playlists of a user, without videos.
func (pg *playlistGorm) PlaylistsByUserID(ctx context.Context, userID int) ([]domain.Playlist, error) {
	if userID <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	playlists := []domain.Playlist{}
	err := pg.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&playlists).Error
	if err != nil {
		return nil, err
	}
	return playlists, nil
}

// AddVideo links a video into the viewer's playlist. Adding a video twice
// is a no-op.
func (pv *playlistValidator) AddVideo(ctx context.Context, viewer *domain.User, playlistID, videoID int) error {
	playlist, err := pv.ownedPlaylist(ctx, viewer, playlistID)
	if err != nil {
		return err
	}
	if videoID <= 0 {
		return errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	var video domain.Video
	err = pv.db.WithContext(ctx).
		First(&video, "id = ? AND (is_published = ? OR user_id = ?)", videoID, true, viewer.ID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "Video not found or not available right now.")
		}
		return err
	}
	return pv.db.WithContext(ctx).Model(playlist).Association("Videos").Append(&video)
}

// RemoveVideo unlinks a video from the viewer's playlist.
func (pv *playlistValidator) RemoveVideo(ctx context.Context, viewer *domain.User, playlistID, videoID int) error {
	playlist, err := pv.ownedPlaylist(ctx, viewer, playlistID)
	if err != nil {
		return err
	}
	if videoID <= 0 {
		return errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	return pv.db.WithContext(ctx).Model(playlist).Association("Videos").Delete(&domain.Video{ID: videoID})
}

// UpdatePlaylist applies the non-nil fields of upd to the viewer's playlist.
func (pv *playlistValidator) UpdatePlaylist(ctx context.Context, viewer *domain.User, id int, upd *domain.PlaylistUpdate) (*domain.Playlist, error) {
	playlist, err := pv.ownedPlaylist(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, errs.Errorf(errs.EINVALID, "Name must not be empty.")
		}
		playlist.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		playlist.Description = *upd.Description
	}
	if err := pv.db.WithContext(ctx).Save(playlist).Error; err != nil {
		return nil, err
	}
	return playlist, nil
}

// DeletePlaylist deletes the viewer's playlist and its video links. The
// videos themselves are untouched.
func (pv *playlistValidator) DeletePlaylist(ctx context.Context, viewer *domain.User, id int) error {
	playlist, err := pv.ownedPlaylist(ctx, viewer, id)
	if err != nil {
		return err
	}
	return pv.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM playlist_videos WHERE playlist_id = ?", playlist.ID).Error; err != nil {
			return err
		}
		return tx.Delete(playlist).Error
	})
}

// ownedPlaylist fetches a playlist and checks it belongs to the viewer.
func (pv *playlistValidator) ownedPlaylist(ctx context.Context, viewer *domain.User, id int) (*domain.Playlist, error) {
	if viewer == nil || viewer.ID <= 0 {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "You must be logged in.")
	}
	if id <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	var playlist domain.Playlist
	err := pv.db.WithContext(ctx).First(&playlist, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Playlist not found.")
		}
		return nil, err
	}
	if playlist.UserID != viewer.ID {
		return nil, errs.Errorf(errs.EUNAUTHORIZED, "You are not allowed to edit this playlist.")
	}
	return &playlist, nil
}
