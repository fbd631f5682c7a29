package domain

import (
	"context"
	"time"
)

// User is a registered account. Every user doubles as a channel: videos,
// tweets and subscriptions all hang off a User record. The password hash
// and plaintext password never leave the server.
type User struct {
	ID         int    `json:"id"`
	Username   string `json:"username" gorm:"uniqueIndex;notNull"`
	Email      string `json:"email" gorm:"uniqueIndex;notNull"`
	FullName   string `json:"fullName" gorm:"notNull"`
	Avatar     string `json:"avatar"`
	CoverImage string `json:"coverImage"`

	Password     string `json:"-" gorm:"-"`
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserService is a set of methods to manipulate and work with the User model.
type UserService interface {
	CreateUser(ctx context.Context, user *User) error
	FindUserByID(ctx context.Context, id int) (*User, error)
	FindUserByUsername(ctx context.Context, username string) (*User, error)
}

// Author is the public projection of a User embedded in feed items.
// It deliberately carries display fields only.
type Author struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// Channel is an Author enriched with subscription state relative to the
// requesting viewer.
type Channel struct {
	Author
	SubscribersCount int  `json:"subscribersCount"`
	IsSubscribed     bool `json:"isSubscribed"`
}
