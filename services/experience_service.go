package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"stay-booking/models"
	"stay-booking/repositories"
)

type PriceRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SearchFilters is the merged filter object; every field is optional and they combine with AND.
type SearchFilters struct {
	Query      string      `json:"query,omitempty"`
	Category   string      `json:"category,omitempty"`
	PriceRange *PriceRange `json:"priceRange,omitempty"`
	Distance   string      `json:"distance,omitempty"`
	Dates      *DateRange  `json:"dates,omitempty"`
	Amenities  []string    `json:"amenities,omitempty"`
}

type SearchResult struct {
	Data  []models.Experience `json:"data"`
	Count int                 `json:"count"`
}

type ExperienceService struct {
	Experiences repositories.ExperienceRepository
}

func NewExperienceService(experiences repositories.ExperienceRepository) *ExperienceService {
	return &ExperienceService{Experiences: experiences}
}

func (s *ExperienceService) List(ctx context.Context) ([]models.Experience, error) {
	out, err := s.Experiences.List(ctx)
	if err != nil {
		return nil, FetchError{Op: "experiences", Err: err}
	}
	return out, nil
}

func (s *ExperienceService) Get(ctx context.Context, id string) (*models.Experience, error) {
	exp, err := s.Experiences.FindByID(ctx, id)
	if err != nil {
		return nil, FetchError{Op: "experience", Err: err}
	}
	if exp == nil {
		return nil, NotFoundError{Resource: "experience", ID: id}
	}
	return exp, nil
}

func (s *ExperienceService) ListByCategory(ctx context.Context, category string) ([]models.Experience, error) {
	if !models.ValidCategory(category) {
		return nil, ValidationError{Field: "category", Msg: "unknown category"}
	}
	out, err := s.Experiences.ListByCategory(ctx, category)
	if err != nil {
		return nil, FetchError{Op: "experiences", Err: err}
	}
	return out, nil
}

func (s *ExperienceService) Search(ctx context.Context, f SearchFilters) (SearchResult, error) {
	q, err := f.resolve()
	if err != nil {
		return SearchResult{}, err
	}
	rows, err := s.Experiences.Search(ctx, q)
	if err != nil {
		return SearchResult{}, SearchError{Err: err}
	}
	if rows == nil {
		rows = []models.Experience{}
	}
	return SearchResult{Data: rows, Count: len(rows)}, nil
}

func (f SearchFilters) resolve() (repositories.ExperienceQuery, error) {
	q := repositories.ExperienceQuery{
		Text:     f.Query,
		Category: f.Category,
	}
	if f.PriceRange != nil {
		q.MinPrice, q.MaxPrice = f.PriceRange.Min, f.PriceRange.Max
		if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
			return q, ValidationError{Field: "priceRange", Msg: "min is greater than max"}
		}
	}
	if strings.TrimSpace(f.Distance) != "" {
		lo, hi, err := ParseDistance(f.Distance)
		if err != nil {
			return q, err
		}
		q.MinDistance, q.MaxDistance = &lo, &hi
	}
	if f.Dates != nil {
		if f.Dates.End.Before(f.Dates.Start) {
			return q, ValidationError{Field: "dates", Msg: "end is before start"}
		}
		start, end := f.Dates.Start, f.Dates.End
		q.DateStart, q.DateEnd = &start, &end
	}
	for _, a := range f.Amenities {
		if a = strings.TrimSpace(a); a != "" {
			q.Amenities = append(q.Amenities, a)
		}
	}
	return q, nil
}

// ParseDistance reads a "min-max" kilometre range such as "5-20".
func ParseDistance(raw string) (float64, float64, error) {
	invalid := ValidationError{Field: "distance", Msg: `expected "min-max"`}
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 2 {
		return 0, 0, invalid
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, invalid
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, invalid
	}
	if lo < 0 || hi < lo {
		return 0, 0, invalid
	}
	return lo, hi, nil
}
