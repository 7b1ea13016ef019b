package models

import (
	"time"

	"gorm.io/datatypes"
)

// DateOption is one bookable night in the booking calendar.
type DateOption struct {
	ID            string    `gorm:"primaryKey;size:16" json:"id"`
	Start         time.Time `gorm:"column:start_date;type:date;not null" json:"start"`
	End           time.Time `gorm:"column:end_date;type:date;not null" json:"end"`
	Price         float64   `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	OriginalPrice float64   `gorm:"column:original_price;type:decimal(10,2)" json:"original_price"`
	Discount      int       `gorm:"column:discount" json:"discount"`
	Availability  int       `gorm:"column:availability" json:"availability"`
}

func (d DateOption) Available() bool { return d.Availability > 0 }

// RoomOption is a room upgrade; Price is added once per stay.
type RoomOption struct {
	ID        string                      `gorm:"primaryKey;size:32" json:"id"`
	Name      string                      `gorm:"column:name;size:128;not null" json:"name"`
	Price     float64                     `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	Size      int                         `gorm:"column:size" json:"size"`
	BedType   string                      `gorm:"column:bed_type;size:128" json:"bed_type"`
	Amenities datatypes.JSONSlice[string] `gorm:"column:amenities" json:"amenities"`
	Images    datatypes.JSONSlice[string] `gorm:"column:images" json:"images"`
}
