package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"stay-booking/models"
)

const defaultPageSize = 10

type ReservationQuery struct {
	Status string
	Limit  int
	Offset int
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) Create(ctx context.Context, res *models.Reservation) error {
	// the wrapped driver error is kept so callers can detect duplicate references
	if err := r.db.WithContext(ctx).Omit("Experience").Create(res).Error; err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

func (r *reservationRepository) CountByReferencePrefix(ctx context.Context, prefix string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("booking_reference LIKE ?", escapeLike(prefix)+"%").
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count booking references: %w", err)
	}
	return n, nil
}

func (r *reservationRepository) ListForUser(ctx context.Context, userID string, q ReservationQuery) ([]models.Reservation, error) {
	tx := r.db.WithContext(ctx).
		Preload("Experience", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "description", "images", "location")
		}).
		Where("user_id = ?", userID)

	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		size := q.Limit
		if size <= 0 {
			size = defaultPageSize
		}
		tx = tx.Offset(q.Offset).Limit(size)
	}

	out := []models.Reservation{}
	if err := tx.Order("check_in_date ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return out, nil
}

func (r *reservationRepository) FindForUser(ctx context.Context, id, userID string) (*models.Reservation, error) {
	var res models.Reservation
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Take(&res).Error
	if err != nil {
		if err = notFoundIsNil(err); err != nil {
			return nil, fmt.Errorf("failed to get reservation: %w", err)
		}
		return nil, nil
	}
	return &res, nil
}

func (r *reservationRepository) FindExperienceDetail(ctx context.Context, experienceID string) (*models.ExperienceDetail, error) {
	var detail models.ExperienceDetail
	err := r.db.WithContext(ctx).
		Select("id", "title", "description", "images", "location", "check_in_info", "transportation").
		Where("id = ?", experienceID).
		Take(&detail).Error
	if err != nil {
		if err = notFoundIsNil(err); err != nil {
			return nil, fmt.Errorf("failed to get reservation experience: %w", err)
		}
		return nil, nil
	}
	return &detail, nil
}

func (r *reservationRepository) UpdateStatusForUser(ctx context.Context, id, userID, status string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("status", status)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update reservation status: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *reservationRepository) CompleteCheckedOut(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("status = ? AND check_out_date < ?", models.StatusConfirmed, before).
		Update("status", models.StatusCompleted)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to complete past reservations: %w", res.Error)
	}
	return res.RowsAffected, nil
}
