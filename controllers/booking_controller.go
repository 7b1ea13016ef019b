package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stay-booking/booking"
	"stay-booking/filters"
	"stay-booking/middleware"
)

type BookingController struct {
	Flow *booking.Flow
}

func NewBookingController(flow *booking.Flow) *BookingController {
	return &BookingController{Flow: flow}
}

type startDraftRequest struct {
	ExperienceID string `json:"experience_id" binding:"required"`
}

type guestsRequest struct {
	Adults   int `json:"adults" binding:"min=1,max=10"`
	Children int `json:"children" binding:"min=0,max=6"`
	Infants  int `json:"infants" binding:"min=0,max=4"`
}

type selectDateRequest struct {
	DateOptionID string         `json:"date_option_id" binding:"required"`
	Nights       int            `json:"nights" binding:"required,oneof=1 2"`
	Guests       *guestsRequest `json:"guests"`
}

type selectRoomRequest struct {
	RoomOptionID string `json:"room_option_id" binding:"required"`
}

type reviseRequest struct {
	Step string `json:"step" binding:"required,oneof=selecting_date selecting_room"`
}

func respondDraft(c *gin.Context, status int, d *booking.Draft) {
	c.JSON(status, gin.H{"data": d, "exits": d.Exits()})
}

// GET /api/booking/options/dates
func (ctl *BookingController) DateOptions(c *gin.Context) {
	out, err := ctl.Flow.DateOptions(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GET /api/booking/options/rooms
func (ctl *BookingController) RoomOptions(c *gin.Context) {
	out, err := ctl.Flow.RoomOptions(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// POST /api/booking/drafts
func (ctl *BookingController) Start(c *gin.Context) {
	var req startDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	d, err := ctl.Flow.Start(c.Request.Context(), middleware.Identity(c), req.ExperienceID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondDraft(c, http.StatusCreated, d)
}

// GET /api/booking/drafts/:id
func (ctl *BookingController) Get(c *gin.Context) {
	d, err := ctl.Flow.Get(c.Request.Context(), middleware.Identity(c), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondDraft(c, http.StatusOK, d)
}

// PUT /api/booking/drafts/:id/date
func (ctl *BookingController) SelectDate(c *gin.Context) {
	var req selectDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	guests := filters.DefaultGuests()
	if req.Guests != nil {
		guests = filters.Guests{Adults: req.Guests.Adults, Children: req.Guests.Children, Infants: req.Guests.Infants}
	}
	d, err := ctl.Flow.SelectDate(c.Request.Context(), middleware.Identity(c), c.Param("id"), req.DateOptionID, req.Nights, guests)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondDraft(c, http.StatusOK, d)
}

// PUT /api/booking/drafts/:id/room
func (ctl *BookingController) SelectRoom(c *gin.Context) {
	var req selectRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	d, err := ctl.Flow.SelectRoom(c.Request.Context(), middleware.Identity(c), c.Param("id"), req.RoomOptionID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondDraft(c, http.StatusOK, d)
}

// POST /api/booking/drafts/:id/revise
func (ctl *BookingController) Revise(c *gin.Context) {
	var req reviseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	d, err := ctl.Flow.Revise(c.Request.Context(), middleware.Identity(c), c.Param("id"), booking.State(req.Step))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondDraft(c, http.StatusOK, d)
}

// POST /api/booking/drafts/:id/confirm
func (ctl *BookingController) Confirm(c *gin.Context) {
	d, err := ctl.Flow.Confirm(c.Request.Context(), middleware.Identity(c), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondDraft(c, http.StatusOK, d)
}
