package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"stay-booking/models"
)

type optionRepository struct {
	db *gorm.DB
}

func NewOptionRepository(db *gorm.DB) OptionRepository {
	return &optionRepository{db: db}
}

func (r *optionRepository) ListDateOptions(ctx context.Context) ([]models.DateOption, error) {
	var out []models.DateOption
	if err := r.db.WithContext(ctx).Order("start_date ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list date options: %w", err)
	}
	return out, nil
}

func (r *optionRepository) FindDateOption(ctx context.Context, id string) (*models.DateOption, error) {
	var opt models.DateOption
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&opt).Error; err != nil {
		if err = notFoundIsNil(err); err != nil {
			return nil, fmt.Errorf("failed to get date option: %w", err)
		}
		return nil, nil
	}
	return &opt, nil
}

func (r *optionRepository) ListRoomOptions(ctx context.Context) ([]models.RoomOption, error) {
	var out []models.RoomOption
	if err := r.db.WithContext(ctx).Order("price ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list room options: %w", err)
	}
	return out, nil
}

func (r *optionRepository) FindRoomOption(ctx context.Context, id string) (*models.RoomOption, error) {
	var opt models.RoomOption
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&opt).Error; err != nil {
		if err = notFoundIsNil(err); err != nil {
			return nil, fmt.Errorf("failed to get room option: %w", err)
		}
		return nil, nil
	}
	return &opt, nil
}
