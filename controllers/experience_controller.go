package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stay-booking/filters"
	"stay-booking/services"
)

type ExperienceController struct {
	Svc *services.ExperienceService
}

func NewExperienceController(svc *services.ExperienceService) *ExperienceController {
	return &ExperienceController{Svc: svc}
}

type priceRangeRequest struct {
	Min *float64 `json:"min" binding:"omitempty,gte=0"`
	Max *float64 `json:"max" binding:"omitempty,gte=0"`
}

type dateRangeRequest struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// SearchRequest is the POST /api/experiences/search body.
type SearchRequest struct {
	Query      string             `json:"query" binding:"max=200"`
	Category   string             `json:"category" binding:"omitempty,category"`
	PriceRange *priceRangeRequest `json:"priceRange"`
	Distance   string             `json:"distance" binding:"omitempty,distance_range"`
	Dates      *dateRangeRequest  `json:"dates"`
	Amenities  []string           `json:"amenities" binding:"omitempty,dive,amenity"`
}

func (r SearchRequest) toFilters() services.SearchFilters {
	f := services.SearchFilters{
		Query:     r.Query,
		Category:  r.Category,
		Distance:  r.Distance,
		Amenities: r.Amenities,
	}
	if r.PriceRange != nil {
		f.PriceRange = &services.PriceRange{Min: r.PriceRange.Min, Max: r.PriceRange.Max}
	}
	if r.Dates != nil {
		f.Dates = &services.DateRange{Start: r.Dates.Start, End: r.Dates.End}
	}
	return f
}

// GET /api/experiences
func (ctl *ExperienceController) List(c *gin.Context) {
	out, err := ctl.Svc.List(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GET /api/experiences/:id
func (ctl *ExperienceController) Get(c *gin.Context) {
	exp, err := ctl.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": exp})
}

// GET /api/experiences/category/:category
func (ctl *ExperienceController) ListByCategory(c *gin.Context) {
	out, err := ctl.Svc.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GET /api/experiences/search reads the filter panel state from the query string.
func (ctl *ExperienceController) SearchQuery(c *gin.Context) {
	state, err := filters.FromQuery(c.Request.URL.Query())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	ctl.search(c, state.ToSearchFilters())
}

// POST /api/experiences/search
func (ctl *ExperienceController) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ctl.search(c, req.toFilters())
}

func (ctl *ExperienceController) search(c *gin.Context, f services.SearchFilters) {
	res, err := ctl.Svc.Search(c.Request.Context(), f)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
