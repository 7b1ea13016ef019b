package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"

	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
	PaymentFailed   = "failed"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded, PaymentFailed:
		return true
	}
	return false
}

type Reservation struct {
	ID               string    `gorm:"primaryKey;type:char(36)" json:"id"`
	UserID           string    `gorm:"column:user_id;type:char(36);not null;index" json:"user_id"`
	ExperienceID     string    `gorm:"column:experience_id;type:char(36);not null;index" json:"experience_id"`
	BookingReference string    `gorm:"column:booking_reference;size:32;uniqueIndex;not null" json:"booking_reference"`
	CheckInDate      time.Time `gorm:"column:check_in_date;type:date;not null;index" json:"check_in_date"`
	CheckOutDate     time.Time `gorm:"column:check_out_date;type:date;not null" json:"check_out_date"`
	RoomType         string    `gorm:"column:room_type;size:64" json:"room_type"`
	GuestCount       int       `gorm:"column:guest_count;not null" json:"guest_count"`
	TotalPrice       float64   `gorm:"column:total_price;type:decimal(10,2);not null" json:"total_price"`
	Status           string    `gorm:"column:status;size:16;not null;default:confirmed;index" json:"status"`
	PaymentStatus    string    `gorm:"column:payment_status;size:16;not null;default:pending" json:"payment_status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Experience *ExperienceSummary `gorm:"foreignKey:ExperienceID;references:ID;-:migration" json:"experience,omitempty"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// ReservationDetail is a reservation with the extended experience embed.
type ReservationDetail struct {
	Reservation
	Experience *ExperienceDetail `json:"experience"`
}
