package crud

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"wtfTube/domain"
	"wtfTube/errs"
)

// UserService manages Users.
// It implements the domain.UserService interface.
type UserService struct {
	userValidator
}

// userValidator runs validations on incoming User data.
// On success, it passes the data on to userGorm.
// Otherwise, it returns the error of the validation that has failed.
type userValidator struct {
	userGorm
}

// userGorm runs CRUD operations on the database using incoming User data.
// It assumes that data has been validated.
type userGorm struct {
	db *gorm.DB
}

// NewUserService returns an instance of UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		userValidator{
			userGorm{
				db: db,
			},
		},
	}
}

// Ensure the UserService struct properly implements the domain.UserService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.UserService = &UserService{}

// CreateUser runs validations needed for creating new User database records.
func (uv *userValidator) CreateUser(ctx context.Context, user *domain.User) error {
	err := runUserValFns(user,
		uv.normalize,
		uv.requiredFields,
		uv.bcryptPassword)
	if err != nil {
		return err
	}
	if err := uv.uniqueness(ctx, user); err != nil {
		return err
	}
	return uv.userGorm.Create(ctx, user)
}

// uniqueness pre-checks that no account already uses the username or email.
// The unique indexes on both columns back this up against races.
func (uv *userValidator) uniqueness(ctx context.Context, user *domain.User) error {
	var count int64
	err := uv.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("username = ? OR email = ?", user.Username, user.Email).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return errs.Errorf(errs.ECONFLICT, "User with email or username already exists.")
	}
	return nil
}

// runUserValFns runs any number of functions of type userValFn on the
// passed in User object.
func runUserValFns(user *domain.User, fns ...userValFn) error {
	for _, fn := range fns {
		if err := fn(user); err != nil {
			return err
		}
	}
	return nil
}

// A userValFn is any function that takes in a pointer to a domain.User
// object and returns an error.
type userValFn func(user *domain.User) error

// normalize lowercases the username and email and trims whitespace,
// so uniqueness checks compare like with like.
func (uv *userValidator) normalize(user *domain.User) error {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.FullName = strings.TrimSpace(user.FullName)
	return nil
}

// requiredFields makes sure none of the registration fields are empty.
func (uv *userValidator) requiredFields(user *domain.User) error {
	if user.Username == "" || user.Email == "" || user.FullName == "" || user.Password == "" {
		return errs.Errorf(errs.EINVALID, "All fields are required.")
	}
	return nil
}

// bcryptPassword hashes a user's password with bcrypt, which salts
// automatically. The plaintext is cleared afterwards.
func (uv *userValidator) bcryptPassword(user *domain.User) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashed)
	user.Password = ""
	return nil
}

// Create stores the data from the User object in a new database record.
func (ug *userGorm) Create(ctx context.Context, user *domain.User) error {
	err := ug.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Errorf(errs.ECONFLICT, "User with email or username already exists.")
	}
	return err
}

// FindUserByID retrieves a user by their ID.
func (ug *userGorm) FindUserByID(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	err := ug.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "User not found.")
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByUsername retrieves a user by their username.
func (ug *userGorm) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := ug.db.WithContext(ctx).
		First(&user, "username = ?", strings.ToLower(strings.TrimSpace(username))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "Channel not found.")
		}
		return nil, err
	}
	return &user, nil
}
