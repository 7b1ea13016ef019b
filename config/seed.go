package config

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"stay-booking/logger"
	"stay-booking/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateOptionSeeds() []models.DateOption {
	rows := []struct {
		id            string
		start         time.Time
		price, origin float64
		availability  int
	}{
		{"1", day(2025, time.February, 16), 254, 318, 1},
		{"2", day(2025, time.February, 17), 262, 328, 0},
		{"3", day(2025, time.February, 18), 278, 348, 1},
		{"4", day(2025, time.February, 19), 278, 348, 0},
		{"5", day(2025, time.February, 20), 270, 338, 3},
	}
	out := make([]models.DateOption, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.DateOption{
			ID:            r.id,
			Start:         r.start,
			End:           r.start.AddDate(0, 0, 1),
			Price:         r.price,
			OriginalPrice: r.origin,
			Discount:      20,
			Availability:  r.availability,
		})
	}
	return out
}

func roomOptionSeeds() []models.RoomOption {
	return []models.RoomOption{
		{
			ID:        "superior",
			Name:      "Supérieure",
			Price:     16,
			Size:      22,
			BedType:   "Lit double queen size",
			Amenities: datatypes.JSONSlice[string]{"Douche", "Douche effet pluie", "TV"},
			Images: datatypes.JSONSlice[string]{
				"https://images.unsplash.com/photo-1582719478250-c89cae4dc85b?w=800",
				"https://images.unsplash.com/photo-1571896349842-33c89424de2d?w=800",
			},
		},
		{
			ID:        "deluxe",
			Name:      "Deluxe",
			Price:     32,
			Size:      28,
			BedType:   "Lit king size",
			Amenities: datatypes.JSONSlice[string]{"Douche", "Baignoire", "TV", "Mini bar"},
			Images: datatypes.JSONSlice[string]{
				"https://images.unsplash.com/photo-1445019980597-93fa8acb246c?w=800",
				"https://images.unsplash.com/photo-1566665797739-1674de7a421a?w=800",
			},
		},
	}
}

func experienceSeeds() []models.Experience {
	company := "Maison Lumière"
	return []models.Experience{
		{
			Title:           "Nuit étoilée et spa privatif",
			Description:     "Une chambre cosy avec accès au spa, à 45 minutes de Paris.",
			LongDescription: "Profitez d'une nuit au calme avec hammam, sauna et petit-déjeuner servi en chambre.",
			Price:           254,
			Images:          datatypes.JSONSlice[string]{"https://images.unsplash.com/photo-1582719478250-c89cae4dc85b?w=800"},
			Category:        models.CategoryHotel,
			Company:         &company,
			Location:        datatypes.NewJSONType(models.Location{City: "Chantilly", Latitude: 49.1939, Longitude: 2.4711, DistanceFromParis: 45}),
			Rating:          4.7,
			ReviewCount:     128,
			Items:           datatypes.NewJSONType(models.Items{Amenities: []string{"spa", "sauna", "hammam", "breakfast", "late-checkout"}}),
			CheckInInfo:     datatypes.NewJSONType(models.CheckInInfo{CheckIn: "15:00", CheckOut: "12:00"}),
			Transportation: datatypes.NewJSONType(models.Transportation{
				NearestAirports:    []models.Airport{{Name: "Paris-Charles de Gaulle", Distance: "25 km"}},
				Parking:            "Parking gratuit sur place",
				DistanceFromCenter: "2 km",
			}),
			Accessibility:  datatypes.NewJSONType(models.Accessibility{Elevator: true, AccessibleRooms: true}),
			AdditionalInfo: datatypes.NewJSONType(models.AdditionalInfo{LanguagesSpoken: []string{"Français", "English"}, SmokingPolicy: "Non-fumeur"}),
			Schedules:      datatypes.NewJSONType(models.Schedules{"breakfast": "07:30-10:30", "spa": "10:00-21:00"}),
		},
		{
			Title:       "Rooftop et brunch face à la Seine",
			Description: "Brunch dominical sur un toit-terrasse du 7e arrondissement.",
			Price:       69,
			Images:      datatypes.JSONSlice[string]{"https://images.unsplash.com/photo-1571896349842-33c89424de2d?w=800"},
			Category:    models.CategoryRooftop,
			Location:    datatypes.NewJSONType(models.Location{City: "Paris", Latitude: 48.8584, Longitude: 2.2945, DistanceFromParis: 0}),
			Rating:      4.4,
			ReviewCount: 312,
			Items:       datatypes.NewJSONType(models.Items{Amenities: []string{"brunch"}}),
			CheckInInfo: datatypes.NewJSONType(models.CheckInInfo{CheckIn: "11:00", CheckOut: "15:00"}),
			Transportation: datatypes.NewJSONType(models.Transportation{
				Metro:              "Bir-Hakeim (ligne 6)",
				DistanceFromCenter: "4 km",
			}),
		},
		{
			Title:       "Journée thermale en Normandie",
			Description: "Piscine chauffée, bain à remous et déjeuner léger.",
			Price:       119,
			Images:      datatypes.JSONSlice[string]{"https://images.unsplash.com/photo-1445019980597-93fa8acb246c?w=800"},
			Category:    models.CategorySpa,
			Location:    datatypes.NewJSONType(models.Location{City: "Deauville", Latitude: 49.3598, Longitude: 0.0757, DistanceFromParis: 200}),
			Rating:      4.8,
			ReviewCount: 86,
			Items:       datatypes.NewJSONType(models.Items{Amenities: []string{"pool", "whirlpool", "spa", "lunch"}}),
			CheckInInfo: datatypes.NewJSONType(models.CheckInInfo{CheckIn: "09:00", CheckOut: "19:00"}),
		},
	}
}

// seedTable inserts rows only when the table for model is empty.
func seedTable[T any](db *gorm.DB, name string, rows []T) error {
	var count int64
	var model T
	if err := db.Model(&model).Count(&count).Error; err != nil {
		return fmt.Errorf("count %s: %w", name, err)
	}
	if count > 0 {
		return nil
	}
	if err := db.Create(&rows).Error; err != nil {
		return fmt.Errorf("seed %s: %w", name, err)
	}
	logger.L().Info("table seeded", zap.String("table", name), zap.Int("rows", len(rows)))
	return nil
}

func SeedDatabase(db *gorm.DB) error {
	if err := seedTable(db, "date_options", dateOptionSeeds()); err != nil {
		return err
	}
	if err := seedTable(db, "room_options", roomOptionSeeds()); err != nil {
		return err
	}
	return seedTable(db, "experiences", experienceSeeds())
}
