package repositories

import (
	"context"
	"errors"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"stay-booking/models"
)

// Find* methods return (nil, nil) when no row matches.

type UserRepository interface {
	FindByAuthID(ctx context.Context, authID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateByAuthID(ctx context.Context, authID string, updates map[string]interface{}) (*models.User, error)
}

type AuthAccountRepository interface {
	FindByID(ctx context.Context, id string) (*models.AuthAccount, error)
	FindByEmail(ctx context.Context, email string) (*models.AuthAccount, error)
	FindByProvider(ctx context.Context, provider, subject string) (*models.AuthAccount, error)
	Create(ctx context.Context, account *models.AuthAccount) error
	LinkProvider(ctx context.Context, id, provider, subject string) error
	TouchSignIn(ctx context.Context, id string, at time.Time) error
}

type ExperienceRepository interface {
	List(ctx context.Context) ([]models.Experience, error)
	ListByCategory(ctx context.Context, category string) ([]models.Experience, error)
	FindByID(ctx context.Context, id string) (*models.Experience, error)
	Search(ctx context.Context, q ExperienceQuery) ([]models.Experience, error)
}

type WishlistRepository interface {
	ListExperienceIDs(ctx context.Context, userID string) ([]string, error)
	Find(ctx context.Context, userID, experienceID string) (*models.Wishlist, error)
	Create(ctx context.Context, entry *models.Wishlist) error
	Delete(ctx context.Context, id string) error
}

type ReservationRepository interface {
	Create(ctx context.Context, r *models.Reservation) error
	CountByReferencePrefix(ctx context.Context, prefix string) (int64, error)
	ListForUser(ctx context.Context, userID string, q ReservationQuery) ([]models.Reservation, error)
	FindForUser(ctx context.Context, id, userID string) (*models.Reservation, error)
	FindExperienceDetail(ctx context.Context, experienceID string) (*models.ExperienceDetail, error)
	UpdateStatusForUser(ctx context.Context, id, userID, status string) (int64, error)
	CompleteCheckedOut(ctx context.Context, before time.Time) (int64, error)
}

type OptionRepository interface {
	ListDateOptions(ctx context.Context) ([]models.DateOption, error)
	FindDateOption(ctx context.Context, id string) (*models.DateOption, error)
	ListRoomOptions(ctx context.Context) ([]models.RoomOption, error)
	FindRoomOption(ctx context.Context, id string) (*models.RoomOption, error)
}

// IsDuplicate reports a unique-key violation (MySQL 1062).
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

func notFoundIsNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
