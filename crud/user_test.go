package crud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"wtfTube/domain"
	"wtfTube/errs"
)

func TestCreateUser(t *testing.T) {
	db := testDB(t)
	us := NewUserService(db)

	user := domain.User{
		Username: "  Alice  ",
		Email:    "Alice@Example.com",
		FullName: "Alice A.",
		Password: "correct horse",
	}
	require.NoError(t, us.CreateUser(ctx, &user))
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	// The plaintext never sticks around; the hash verifies.
	assert.Empty(t, user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse")))
}

func TestCreateUser_Conflicts(t *testing.T) {
	db := testDB(t)
	us := NewUserService(db)
	seedUser(t, db, "alice")

	err := us.CreateUser(ctx, &domain.User{
		Username: "alice",
		Email:    "other@example.com",
		FullName: "Impostor",
		Password: "password123",
	})
	assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))

	err = us.CreateUser(ctx, &domain.User{
		Username: "someone",
		Email:    "alice@example.com",
		FullName: "Impostor",
		Password: "password123",
	})
	assert.Equal(t, errs.ECONFLICT, errs.ErrorCode(err))

	err = us.CreateUser(ctx, &domain.User{Username: "incomplete"})
	assert.Equal(t, errs.EINVALID, errs.ErrorCode(err))
}

func TestFindUser(t *testing.T) {
	db := testDB(t)
	us := NewUserService(db)
	alice := seedUser(t, db, "alice")

	found, err := us.FindUserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)

	found, err = us.FindUserByUsername(ctx, "  ALICE ")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)

	_, err = us.FindUserByID(ctx, 9999)
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
	_, err = us.FindUserByUsername(ctx, "nobody")
	assert.Equal(t, errs.ENOTFOUND, errs.ErrorCode(err))
}
