// Package mocks holds testify mocks of the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"stay-booking/models"
	"stay-booking/repositories"
)

type UserRepository struct{ mock.Mock }

func (m *UserRepository) FindByAuthID(ctx context.Context, authID string) (*models.User, error) {
	args := m.Called(ctx, authID)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if user.ID == "" {
		user.ID = "user-created"
	}
	return args.Error(0)
}

func (m *UserRepository) UpdateByAuthID(ctx context.Context, authID string, updates map[string]interface{}) (*models.User, error) {
	args := m.Called(ctx, authID, updates)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type AuthAccountRepository struct{ mock.Mock }

func (m *AuthAccountRepository) FindByID(ctx context.Context, id string) (*models.AuthAccount, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*models.AuthAccount)
	return a, args.Error(1)
}

func (m *AuthAccountRepository) FindByEmail(ctx context.Context, email string) (*models.AuthAccount, error) {
	args := m.Called(ctx, email)
	a, _ := args.Get(0).(*models.AuthAccount)
	return a, args.Error(1)
}

func (m *AuthAccountRepository) FindByProvider(ctx context.Context, provider, subject string) (*models.AuthAccount, error) {
	args := m.Called(ctx, provider, subject)
	a, _ := args.Get(0).(*models.AuthAccount)
	return a, args.Error(1)
}

func (m *AuthAccountRepository) Create(ctx context.Context, account *models.AuthAccount) error {
	args := m.Called(ctx, account)
	if account.ID == "" {
		account.ID = "auth-created"
	}
	return args.Error(0)
}

func (m *AuthAccountRepository) LinkProvider(ctx context.Context, id, provider, subject string) error {
	return m.Called(ctx, id, provider, subject).Error(0)
}

func (m *AuthAccountRepository) TouchSignIn(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

type ExperienceRepository struct{ mock.Mock }

func (m *ExperienceRepository) List(ctx context.Context) ([]models.Experience, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]models.Experience)
	return out, args.Error(1)
}

func (m *ExperienceRepository) ListByCategory(ctx context.Context, category string) ([]models.Experience, error) {
	args := m.Called(ctx, category)
	out, _ := args.Get(0).([]models.Experience)
	return out, args.Error(1)
}

func (m *ExperienceRepository) FindByID(ctx context.Context, id string) (*models.Experience, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*models.Experience)
	return e, args.Error(1)
}

func (m *ExperienceRepository) Search(ctx context.Context, q repositories.ExperienceQuery) ([]models.Experience, error) {
	args := m.Called(ctx, q)
	out, _ := args.Get(0).([]models.Experience)
	return out, args.Error(1)
}

type WishlistRepository struct{ mock.Mock }

func (m *WishlistRepository) ListExperienceIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

func (m *WishlistRepository) Find(ctx context.Context, userID, experienceID string) (*models.Wishlist, error) {
	args := m.Called(ctx, userID, experienceID)
	w, _ := args.Get(0).(*models.Wishlist)
	return w, args.Error(1)
}

func (m *WishlistRepository) Create(ctx context.Context, entry *models.Wishlist) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *WishlistRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type ReservationRepository struct{ mock.Mock }

func (m *ReservationRepository) Create(ctx context.Context, r *models.Reservation) error {
	args := m.Called(ctx, r)
	if args.Error(0) == nil && r.ID == "" {
		r.ID = "res-created"
	}
	return args.Error(0)
}

func (m *ReservationRepository) CountByReferencePrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ReservationRepository) ListForUser(ctx context.Context, userID string, q repositories.ReservationQuery) ([]models.Reservation, error) {
	args := m.Called(ctx, userID, q)
	out, _ := args.Get(0).([]models.Reservation)
	return out, args.Error(1)
}

func (m *ReservationRepository) FindForUser(ctx context.Context, id, userID string) (*models.Reservation, error) {
	args := m.Called(ctx, id, userID)
	r, _ := args.Get(0).(*models.Reservation)
	return r, args.Error(1)
}

func (m *ReservationRepository) FindExperienceDetail(ctx context.Context, experienceID string) (*models.ExperienceDetail, error) {
	args := m.Called(ctx, experienceID)
	d, _ := args.Get(0).(*models.ExperienceDetail)
	return d, args.Error(1)
}

func (m *ReservationRepository) UpdateStatusForUser(ctx context.Context, id, userID, status string) (int64, error) {
	args := m.Called(ctx, id, userID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ReservationRepository) CompleteCheckedOut(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type OptionRepository struct{ mock.Mock }

func (m *OptionRepository) ListDateOptions(ctx context.Context) ([]models.DateOption, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]models.DateOption)
	return out, args.Error(1)
}

func (m *OptionRepository) FindDateOption(ctx context.Context, id string) (*models.DateOption, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*models.DateOption)
	return d, args.Error(1)
}

func (m *OptionRepository) ListRoomOptions(ctx context.Context) ([]models.RoomOption, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]models.RoomOption)
	return out, args.Error(1)
}

func (m *OptionRepository) FindRoomOption(ctx context.Context, id string) (*models.RoomOption, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*models.RoomOption)
	return r, args.Error(1)
}

var (
	_ repositories.UserRepository        = (*UserRepository)(nil)
	_ repositories.AuthAccountRepository = (*AuthAccountRepository)(nil)
	_ repositories.ExperienceRepository  = (*ExperienceRepository)(nil)
	_ repositories.WishlistRepository    = (*WishlistRepository)(nil)
	_ repositories.ReservationRepository = (*ReservationRepository)(nil)
	_ repositories.OptionRepository      = (*OptionRepository)(nil)
)
