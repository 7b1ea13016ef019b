package services

import (
	"context"
	"errors"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"stay-booking/auth"
	"stay-booking/models"
	"stay-booking/repositories/mocks"
)

func TestUserService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		users := new(mocks.UserRepository)
		svc := NewUserService(users, nil)

		_, err := svc.Resolve(ctx, anon)
		assert.ErrorIs(t, err, ErrAuthRequired)
		users.AssertNotCalled(t, "FindByAuthID", mock.Anything, mock.Anything)
	})

	t.Run("not provisioned", func(t *testing.T) {
		users := new(mocks.UserRepository)
		users.On("FindByAuthID", ctx, alice.AuthID).Return(nil, nil)

		_, err := NewUserService(users, nil).Resolve(ctx, alice)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("backend failure", func(t *testing.T) {
		users := new(mocks.UserRepository)
		users.On("FindByAuthID", ctx, alice.AuthID).Return(nil, errors.New("connection refused"))

		_, err := NewUserService(users, nil).Resolve(ctx, alice)
		assert.True(t, IsFetch(err))
	})

	t.Run("success", func(t *testing.T) {
		users := new(mocks.UserRepository)
		users.On("FindByAuthID", ctx, alice.AuthID).Return(&models.User{ID: "u1", AuthID: alice.AuthID}, nil)

		u, err := NewUserService(users, nil).Resolve(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
	})
}

func TestUserService_EnsureUser(t *testing.T) {
	ctx := context.Background()

	t.Run("existing", func(t *testing.T) {
		users := new(mocks.UserRepository)
		users.On("FindByAuthID", ctx, "a1").Return(&models.User{ID: "u1"}, nil)

		u, err := NewUserService(users, nil).EnsureUser(ctx, "a1", "a@x.io")
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("creates", func(t *testing.T) {
		users := new(mocks.UserRepository)
		users.On("FindByAuthID", ctx, "a1").Return(nil, nil)
		users.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.AuthID == "a1" && u.Email == "a@x.io"
		})).Return(nil)

		u, err := NewUserService(users, nil).EnsureUser(ctx, "a1", "a@x.io")
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
	})

	t.Run("lost race re-reads", func(t *testing.T) {
		users := new(mocks.UserRepository)
		users.On("FindByAuthID", ctx, "a1").Return(nil, nil).Once()
		users.On("Create", ctx, mock.Anything).Return(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"})
		users.On("FindByAuthID", ctx, "a1").Return(&models.User{ID: "u-winner"}, nil).Once()

		u, err := NewUserService(users, nil).EnsureUser(ctx, "a1", "a@x.io")
		require.NoError(t, err)
		assert.Equal(t, "u-winner", u.ID)
		users.AssertExpectations(t)
	})
}

func TestUserService_CheckIfUserExists(t *testing.T) {
	ctx := context.Background()
	users := new(mocks.UserRepository)
	users.On("FindByAuthID", ctx, alice.AuthID).Return(&models.User{ID: "u1"}, nil)
	users.On("FindByAuthID", ctx, "auth-fresh").Return(nil, nil)
	svc := NewUserService(users, nil)

	ok, err := svc.CheckIfUserExists(ctx, alice)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckIfUserExists(ctx, auth.Identity{AuthID: "auth-fresh", Email: "new@example.com"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.CheckIfUserExists(ctx, anon)
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestUserService_CompleteProfile(t *testing.T) {
	ctx := context.Background()
	current := &models.User{ID: "u1", AuthID: alice.AuthID, Preferences: datatypes.JSONMap{"lang": "fr"}}

	t.Run("email required", func(t *testing.T) {
		users := new(mocks.UserRepository)
		_, err := NewUserService(users, nil).CompleteProfile(ctx, alice, ProfileInput{})
		assert.True(t, IsValidation(err))
	})

	t.Run("invalid email", func(t *testing.T) {
		users := new(mocks.UserRepository)
		_, err := NewUserService(users, nil).CompleteProfile(ctx, alice, ProfileInput{Email: "nobody"})
		assert.True(t, IsValidation(err))
	})

	t.Run("geocoded city", func(t *testing.T) {
		users := new(mocks.UserRepository)
		users.On("FindByAuthID", ctx, alice.AuthID).Return(current, nil)
		users.On("UpdateByAuthID", ctx, alice.AuthID, mock.MatchedBy(func(u map[string]interface{}) bool {
			prefs := u["preferences"].(datatypes.JSONMap)
			return u["email"] == "alice@example.com" && prefs["city"] == "Lyon" && prefs["lang"] == "fr"
		})).Return(&models.User{ID: "u1"}, nil)

		svc := NewUserService(users, stubGeocoder{city: "Lyon"})
		_, err := svc.CompleteProfile(ctx, alice, ProfileInput{
			Email:     "Alice@Example.com",
			Latitude:  ptr(45.76),
			Longitude: ptr(4.83),
		})
		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("geocoder failure is not fatal", func(t *testing.T) {
		users := new(mocks.UserRepository)
		users.On("FindByAuthID", ctx, alice.AuthID).Return(current, nil)
		users.On("UpdateByAuthID", ctx, alice.AuthID, mock.MatchedBy(func(u map[string]interface{}) bool {
			return u["preferences"].(datatypes.JSONMap)["city"] == ""
		})).Return(&models.User{ID: "u1"}, nil)

		svc := NewUserService(users, stubGeocoder{err: errors.New("breaker open")})
		_, err := svc.CompleteProfile(ctx, alice, ProfileInput{
			Email:     "alice@example.com",
			Latitude:  ptr(45.76),
			Longitude: ptr(4.83),
		})
		require.NoError(t, err)
		users.AssertExpectations(t)
	})
}
