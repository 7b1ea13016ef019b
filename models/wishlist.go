package models

import (
	"time"

	"gorm.io/gorm"
)

// Wishlist marks an experience as saved by a user. Unique per (user, experience).
type Wishlist struct {
	ID           string    `gorm:"primaryKey;type:char(36)" json:"id"`
	UserID       string    `gorm:"column:user_id;type:char(36);not null;uniqueIndex:idx_wishlists_user_experience" json:"user_id"`
	ExperienceID string    `gorm:"column:experience_id;type:char(36);not null;uniqueIndex:idx_wishlists_user_experience;index" json:"experience_id"`
	CreatedAt    time.Time `json:"created_at"`

	User       User       `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Experience Experience `gorm:"foreignKey:ExperienceID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

func (w *Wishlist) BeforeCreate(tx *gorm.DB) error {
	ensureID(&w.ID)
	return nil
}
