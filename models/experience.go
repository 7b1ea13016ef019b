package models

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CategorySpa        = "spa"
	CategoryRooftop    = "rooftop"
	CategoryRestaurant = "restaurant"
	CategoryHotel      = "hotel"
)

var Categories = []string{CategorySpa, CategoryRooftop, CategoryRestaurant, CategoryHotel}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type Location struct {
	City              string  `json:"city"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	DistanceFromParis float64 `json:"distance_from_paris,omitempty"`
}

type Items struct {
	Amenities []string `json:"amenities"`
}

type CheckInInfo struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

type Airport struct {
	Name     string `json:"name"`
	Distance string `json:"distance"`
}

type Transportation struct {
	NearestAirports    []Airport `json:"nearest_airports"`
	Parking            string    `json:"parking"`
	Metro              string    `json:"metro"`
	DistanceFromCenter string    `json:"distance_from_center"`
}

type Accessibility struct {
	Elevator             bool `json:"elevator"`
	WheelchairAccessible bool `json:"wheelchair_accessible"`
	AccessibleRooms      bool `json:"accessible_rooms"`
}

type AdditionalInfo struct {
	LanguagesSpoken []string `json:"languages_spoken"`
	PetsAllowed     bool     `json:"pets_allowed"`
	SmokingPolicy   string   `json:"smoking_policy"`
}

// Schedules holds opening hours keyed by facility (breakfast, spa, pool, ...).
type Schedules map[string]string

type Experience struct {
	ID              string                             `gorm:"primaryKey;type:char(36)" json:"id"`
	Title           string                             `gorm:"column:title;size:255;not null" json:"title"`
	Description     string                             `gorm:"column:description;type:text" json:"description"`
	LongDescription string                             `gorm:"column:long_description;type:text" json:"long_description"`
	Price           float64                            `gorm:"column:price;type:decimal(10,2);not null;default:0" json:"price"`
	Images          datatypes.JSONSlice[string]        `gorm:"column:images" json:"images"`
	ImageURL        *string                            `gorm:"column:image_url;size:1024" json:"image_url,omitempty"`
	Category        string                             `gorm:"column:category;size:32;index" json:"category"`
	Company         *string                            `gorm:"column:company;size:255" json:"company,omitempty"`
	Location        datatypes.JSONType[Location]       `gorm:"column:location" json:"location"`
	Rating          float64                            `gorm:"column:rating;type:decimal(2,1);default:0;index" json:"rating"`
	ReviewCount     int                                `gorm:"column:review_count;default:0" json:"review_count"`
	Items           datatypes.JSONType[Items]          `gorm:"column:items" json:"items"`
	CheckInInfo     datatypes.JSONType[CheckInInfo]    `gorm:"column:check_in_info" json:"check_in_info"`
	Transportation  datatypes.JSONType[Transportation] `gorm:"column:transportation" json:"transportation"`
	Accessibility   datatypes.JSONType[Accessibility]  `gorm:"column:accessibility" json:"accessibility"`
	AdditionalInfo  datatypes.JSONType[AdditionalInfo] `gorm:"column:additional_info" json:"additional_info"`
	Schedules       datatypes.JSONType[Schedules]      `gorm:"column:schedules" json:"schedules"`
	DateStart       *time.Time                         `gorm:"column:date_start;type:date" json:"date_start,omitempty"`
	DateEnd         *time.Time                         `gorm:"column:date_end;type:date" json:"date_end,omitempty"`
	CreatedAt       time.Time                          `json:"created_at"`
	UpdatedAt       time.Time                          `json:"updated_at"`
}

var (
	ErrNegativePrice = errors.New("price must not be negative")
	ErrRatingRange   = errors.New("rating must be within [0,5]")
)

func (e *Experience) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

func (e *Experience) BeforeSave(tx *gorm.DB) error {
	if e.Price < 0 {
		return ErrNegativePrice
	}
	if e.Rating < 0 || e.Rating > 5 {
		return ErrRatingRange
	}
	return nil
}

// Cover is the first image, the one shown on cards.
func (e Experience) Cover() string {
	if len(e.Images) > 0 {
		return e.Images[0]
	}
	if e.ImageURL != nil {
		return *e.ImageURL
	}
	return ""
}

// ExperienceSummary is the denormalized slice embedded in reservation lists.
type ExperienceSummary struct {
	ID          string                       `gorm:"primaryKey" json:"id"`
	Title       string                       `json:"title"`
	Description string                       `json:"description"`
	Images      datatypes.JSONSlice[string]  `json:"images"`
	Location    datatypes.JSONType[Location] `json:"location"`
}

func (ExperienceSummary) TableName() string { return "experiences" }

// ExperienceDetail extends the summary with check-in info and transportation.
type ExperienceDetail struct {
	ID             string                             `gorm:"primaryKey" json:"id"`
	Title          string                             `json:"title"`
	Description    string                             `json:"description"`
	Images         datatypes.JSONSlice[string]        `json:"images"`
	Location       datatypes.JSONType[Location]       `json:"location"`
	CheckInInfo    datatypes.JSONType[CheckInInfo]    `json:"check_in_info"`
	Transportation datatypes.JSONType[Transportation] `json:"transportation"`
}

func (ExperienceDetail) TableName() string { return "experiences" }
