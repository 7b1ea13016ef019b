package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stay-booking/documents"
	"stay-booking/middleware"
	"stay-booking/models"
	"stay-booking/services"
)

type ReservationController struct {
	Svc *services.ReservationService
	Now func() time.Time
}

func NewReservationController(svc *services.ReservationService) *ReservationController {
	return &ReservationController{Svc: svc, Now: time.Now}
}

type listReservationsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=confirmed cancelled completed"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed cancelled completed"`
}

// GET /api/reservations
func (ctl *ReservationController) List(c *gin.Context) {
	var q listReservationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	out, err := ctl.Svc.List(c.Request.Context(), middleware.Identity(c), services.ReservationFilter{
		Status: q.Status,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out, "count": len(out)})
}

// GET /api/reservations/upcoming splits the caller's confirmed reservations around now.
func (ctl *ReservationController) Upcoming(c *gin.Context) {
	out, err := ctl.Svc.List(c.Request.Context(), middleware.Identity(c), services.ReservationFilter{Status: models.StatusConfirmed})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	upcoming, past := services.SplitUpcoming(out, ctl.Now())
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"upcoming": upcoming, "past": past}})
}

// GET /api/reservations/:id
func (ctl *ReservationController) Get(c *gin.Context) {
	res, err := ctl.Svc.Get(c.Request.Context(), middleware.Identity(c), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

// PATCH /api/reservations/:id/status
func (ctl *ReservationController) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	res, err := ctl.Svc.UpdateStatus(c.Request.Context(), middleware.Identity(c), c.Param("id"), req.Status)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

// POST /api/reservations/:id/cancel
func (ctl *ReservationController) Cancel(c *gin.Context) {
	res, err := ctl.Svc.Cancel(c.Request.Context(), middleware.Identity(c), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

// GET /api/reservations/:id/confirmation.pdf
func (ctl *ReservationController) Confirmation(c *gin.Context) {
	res, err := ctl.Svc.Get(c.Request.Context(), middleware.Identity(c), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	pdf, name, err := documents.Confirmation(res)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Header("Content-Length", strconv.Itoa(len(pdf)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
