package domain

import (
	"context"
	"time"
)

// Playlist is a named, ordered-by-insertion collection of videos owned by
// a user.
type Playlist struct {
	ID          int     `json:"id"`
	Name        string  `json:"name" gorm:"notNull"`
	Description string  `json:"description" gorm:"notNull"`
	UserID      int     `json:"user_id" gorm:"notNull;index"`
	Videos      []Video `json:"videos" gorm:"many2many:playlist_videos"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlaylistUpdate carries the mutable fields of a Playlist. Nil fields are
// left untouched.
type PlaylistUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// PlaylistService is a set of methods to manipulate and work with the
// Playlist model.
type PlaylistService interface {
	CreatePlaylist(ctx context.Context, playlist *Playlist) error
	PlaylistByID(ctx context.Context, viewer *User, id int) (*Playlist, error)
	PlaylistsByUserID(ctx context.Context, userID int) ([]Playlist, error)
	AddVideo(ctx context.Context, viewer *User, playlistID, videoID int) error
	RemoveVideo(ctx context.Context, viewer *User, playlistID, videoID int) error
	UpdatePlaylist(ctx context.Context, viewer *User, id int, upd *PlaylistUpdate) (*Playlist, error)
	DeletePlaylist(ctx context.Context, viewer *User, id int) error
}
