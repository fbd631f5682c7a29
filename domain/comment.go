package domain

import (
	"context"
	"time"
)

// Comment is a user's comment on a video or a tweet. The subject is
// polymorphic: SubjectType names the collection, SubjectID the record.
type Comment struct {
	ID          int    `json:"id"`
	Content     string `json:"content" gorm:"notNull"`
	SubjectType string `json:"subject_type" gorm:"type:varchar(16);notNull;index:idx_comment_subject"`
	SubjectID   int    `json:"subject_id" gorm:"notNull;index:idx_comment_subject"`
	UserID      int    `json:"user_id" gorm:"notNull;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentService is a set of methods to manipulate and work with the
// Comment model.
type CommentService interface {
	CreateComment(ctx context.Context, comment *Comment) error
	UpdateComment(ctx context.Context, viewer *User, id int, content string) (*Comment, error)
	DeleteComment(ctx context.Context, viewer *User, id int) error
}
