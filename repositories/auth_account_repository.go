package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"stay-booking/models"
)

type authAccountRepository struct {
	db *gorm.DB
}

func NewAuthAccountRepository(db *gorm.DB) AuthAccountRepository {
	return &authAccountRepository{db: db}
}

func (r *authAccountRepository) find(ctx context.Context, query string, args ...interface{}) (*models.AuthAccount, error) {
	var account models.AuthAccount
	if err := r.db.WithContext(ctx).Where(query, args...).Take(&account).Error; err != nil {
		if err = notFoundIsNil(err); err != nil {
			return nil, fmt.Errorf("failed to get auth account: %w", err)
		}
		return nil, nil
	}
	return &account, nil
}

func (r *authAccountRepository) FindByID(ctx context.Context, id string) (*models.AuthAccount, error) {
	return r.find(ctx, "id = ?", id)
}

func (r *authAccountRepository) FindByEmail(ctx context.Context, email string) (*models.AuthAccount, error) {
	return r.find(ctx, "email = ?", email)
}

func (r *authAccountRepository) FindByProvider(ctx context.Context, provider, subject string) (*models.AuthAccount, error) {
	return r.find(ctx, "provider = ? AND provider_subject = ?", provider, subject)
}

func (r *authAccountRepository) Create(ctx context.Context, account *models.AuthAccount) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return fmt.Errorf("failed to create auth account: %w", err)
	}
	return nil
}

func (r *authAccountRepository) LinkProvider(ctx context.Context, id, provider, subject string) error {
	err := r.db.WithContext(ctx).Model(&models.AuthAccount{}).Where("id = ?", id).
		Updates(map[string]interface{}{"provider": provider, "provider_subject": subject}).Error
	if err != nil {
		return fmt.Errorf("failed to link provider: %w", err)
	}
	return nil
}

func (r *authAccountRepository) TouchSignIn(ctx context.Context, id string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.AuthAccount{}).Where("id = ?", id).Update("last_sign_in_at", at).Error
	if err != nil {
		return fmt.Errorf("failed to record sign in: %w", err)
	}
	return nil
}
