package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"stay-booking/models"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByAuthID(ctx context.Context, authID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("auth_id = ?", authID).Take(&user).Error; err != nil {
		if err = notFoundIsNil(err); err != nil {
			return nil, fmt.Errorf("failed to get user by auth id: %w", err)
		}
		return nil, nil
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) UpdateByAuthID(ctx context.Context, authID string, updates map[string]interface{}) (*models.User, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("auth_id = ?", authID).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update user: %w", res.Error)
	}
	// RowsAffected is 0 on MySQL when nothing changed, so the re-read decides existence.
	return r.FindByAuthID(ctx, authID)
}
