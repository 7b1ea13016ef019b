package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ProviderEmail    = "email"
	ProviderGoogle   = "google"
	ProviderApple    = "apple"
	ProviderFacebook = "facebook"
)

// AuthAccount is a login identity. Its ID is the auth id referenced by users.auth_id.
type AuthAccount struct {
	ID              string     `gorm:"primaryKey;type:char(36)" json:"id"`
	Email           string     `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	PasswordHash    string     `gorm:"column:password_hash;size:255" json:"-"`
	Provider        string     `gorm:"column:provider;size:32;not null;default:email;uniqueIndex:idx_auth_provider_subject" json:"provider"`
	ProviderSubject *string    `gorm:"column:provider_subject;size:255;uniqueIndex:idx_auth_provider_subject" json:"-"`
	LastSignInAt    *time.Time `gorm:"column:last_sign_in_at" json:"last_sign_in_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (a *AuthAccount) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	if a.Provider == "" {
		a.Provider = ProviderEmail
	}
	return nil
}
