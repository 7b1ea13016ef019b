package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stay-booking/services"
)

type OTPController struct {
	Svc *services.OTPService
}

func NewOTPController(svc *services.OTPService) *OTPController {
	return &OTPController{Svc: svc}
}

type otpRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type otpVerifyRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required,numeric"`
}

// POST /api/auth/otp/request
func (ctl *OTPController) Request(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := ctl.Svc.Request(c.Request.Context(), req.Phone); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"data": gin.H{"sent": true}})
}

// POST /api/auth/otp/verify
func (ctl *OTPController) Verify(c *gin.Context) {
	var req otpVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := ctl.Svc.Verify(c.Request.Context(), req.Phone, req.Code); err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"verified": true}})
}
