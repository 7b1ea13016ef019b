package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stay-booking/middleware"
	"stay-booking/services"
)

type ProfileController struct {
	Users *services.UserService
}

func NewProfileController(users *services.UserService) *ProfileController {
	return &ProfileController{Users: users}
}

type profileRequest struct {
	Email     string   `json:"email" binding:"required"`
	FullName  *string  `json:"full_name" binding:"omitempty,max=255"`
	City      string   `json:"city" binding:"max=128"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" binding:"omitempty,longitude"`
}

// GET /api/profile
func (ctl *ProfileController) Get(c *gin.Context) {
	user, err := ctl.Users.Resolve(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}

// PUT /api/profile completes or updates the profile. Coordinates are reverse geocoded when no city is given.
func (ctl *ProfileController) Update(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := ctl.Users.CompleteProfile(c.Request.Context(), middleware.Identity(c), services.ProfileInput{
		Email:     req.Email,
		FullName:  req.FullName,
		City:      req.City,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user})
}
