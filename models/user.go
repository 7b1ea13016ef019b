package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is the domain row for an authenticated person. Exactly one per auth id.
type User struct {
	ID             string            `gorm:"primaryKey;type:char(36)" json:"id"`
	AuthID         string            `gorm:"column:auth_id;type:char(36);uniqueIndex;not null" json:"auth_id"`
	FullName       *string           `gorm:"column:full_name;size:255" json:"full_name"`
	Email          string            `gorm:"column:email;size:255;index" json:"email"`
	PhoneNumber    *string           `gorm:"column:phone_number;size:32" json:"phone_number"`
	ProfilePicture *string           `gorm:"column:profile_picture;size:1024" json:"profile_picture"`
	Preferences    datatypes.JSONMap `gorm:"column:preferences" json:"preferences"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	if u.Preferences == nil {
		u.Preferences = datatypes.JSONMap{}
	}
	return nil
}

// City returns the preferred home city, if any.
func (u User) City() string {
	if u.Preferences == nil {
		return ""
	}
	if city, ok := u.Preferences["city"].(string); ok {
		return city
	}
	return ""
}
