package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"stay-booking/models"
)

// ExperienceQuery is a resolved search: every pointer that is nil is left out of the WHERE clause.
type ExperienceQuery struct {
	Text        string
	Category    string
	MinPrice    *float64
	MaxPrice    *float64
	MinDistance *float64
	MaxDistance *float64
	DateStart   *time.Time
	DateEnd     *time.Time
	Amenities   []string
}

type experienceRepository struct {
	db *gorm.DB
}

func NewExperienceRepository(db *gorm.DB) ExperienceRepository {
	return &experienceRepository{db: db}
}

func (r *experienceRepository) List(ctx context.Context) ([]models.Experience, error) {
	var out []models.Experience
	if err := r.db.WithContext(ctx).Order("rating DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list experiences: %w", err)
	}
	return out, nil
}

func (r *experienceRepository) ListByCategory(ctx context.Context, category string) ([]models.Experience, error) {
	var out []models.Experience
	if err := r.db.WithContext(ctx).Where("category = ?", category).Order("rating DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list experiences by category: %w", err)
	}
	return out, nil
}

func (r *experienceRepository) FindByID(ctx context.Context, id string) (*models.Experience, error) {
	var exp models.Experience
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&exp).Error; err != nil {
		if err = notFoundIsNil(err); err != nil {
			return nil, fmt.Errorf("failed to get experience: %w", err)
		}
		return nil, nil
	}
	return &exp, nil
}

func (r *experienceRepository) Search(ctx context.Context, q ExperienceQuery) ([]models.Experience, error) {
	tx := r.db.WithContext(ctx).Model(&models.Experience{})

	if text := strings.TrimSpace(q.Text); text != "" {
		pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
		tx = tx.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}

	const distance = "CAST(JSON_UNQUOTE(JSON_EXTRACT(location, '$.distance_from_paris')) AS DECIMAL(10,2))"
	if q.MinDistance != nil {
		tx = tx.Where(distance+" >= ?", *q.MinDistance)
	}
	if q.MaxDistance != nil {
		tx = tx.Where(distance+" <= ?", *q.MaxDistance)
	}

	// availability window overlap, a NULL bound is open-ended
	if q.DateEnd != nil {
		tx = tx.Where("(date_start IS NULL OR date_start <= ?)", *q.DateEnd)
	}
	if q.DateStart != nil {
		tx = tx.Where("(date_end IS NULL OR date_end >= ?)", *q.DateStart)
	}

	for _, amenity := range q.Amenities {
		tx = tx.Where("JSON_CONTAINS(items, JSON_QUOTE(?), '$.amenities')", amenity)
	}

	var out []models.Experience
	if err := tx.Order("rating DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to search experiences: %w", err)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
