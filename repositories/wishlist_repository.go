package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stay-booking/models"
)

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) ListExperienceIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).Model(&models.Wishlist{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("experience_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return ids, nil
}

func (r *wishlistRepository) Find(ctx context.Context, userID, experienceID string) (*models.Wishlist, error) {
	var entry models.Wishlist
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND experience_id = ?", userID, experienceID).
		Take(&entry).Error
	if err != nil {
		if err = notFoundIsNil(err); err != nil {
			return nil, fmt.Errorf("failed to get wishlist entry: %w", err)
		}
		return nil, nil
	}
	return &entry, nil
}

func (r *wishlistRepository) Create(ctx context.Context, entry *models.Wishlist) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to add wishlist entry: %w", err)
	}
	return nil
}

func (r *wishlistRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Wishlist{}).Error; err != nil {
		return fmt.Errorf("failed to remove wishlist entry: %w", err)
	}
	return nil
}
