package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"stay-booking/logger"
	"stay-booking/middleware"
	"stay-booking/services"
	"stay-booking/utils"
)

// respondDomainError maps a service error onto the HTTP error payload.
// Backend failures are logged with their cause and answered with a generic message.
func respondDomainError(c *gin.Context, err error) {
	var (
		notFound services.NotFoundError
		invalid  services.ValidationError
		conflict services.ConflictError
		disabled services.UnavailableError
	)
	switch {
	case errors.Is(err, services.ErrAuthRequired):
		utils.JSONError(c, http.StatusUnauthorized, "error.authRequired", err.Error())
	case errors.Is(err, services.ErrSessionInvalid):
		utils.JSONError(c, http.StatusUnauthorized, "error.sessionInvalid", err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, "error.invalidCredentials", err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.userNotFound", "complete your profile first")
	case errors.As(err, &notFound):
		utils.JSONError(c, http.StatusNotFound, "error.notFound", notFound.Error())
	case errors.As(err, &invalid):
		utils.JSONError(c, http.StatusBadRequest, "error.validation", invalid.Error())
	case errors.As(err, &conflict):
		utils.JSONError(c, http.StatusConflict, "error.conflict", conflict.Msg)
	case errors.As(err, &disabled):
		utils.JSONError(c, http.StatusServiceUnavailable, "error.unavailable", disabled.Error())
	case services.IsSearch(err):
		logBackend(c, err)
		utils.JSONError(c, http.StatusBadGateway, "error.search", "search failed, please retry")
	case services.IsReservation(err):
		logBackend(c, err)
		utils.JSONError(c, http.StatusBadGateway, "error.reservation", "reservation could not be saved, please retry")
	case services.IsFetch(err):
		logBackend(c, err)
		utils.JSONError(c, http.StatusBadGateway, "error.fetch", "failed to load, please retry")
	default:
		logBackend(c, err)
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "internal error")
	}
}

func logBackend(c *gin.Context, err error) {
	_ = c.Error(err)
	logger.L().Error("request failed",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("route", c.FullPath()),
		zap.Error(err))
}

// respondBindError answers a payload that failed binding or validation.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field())+" ("+fe.Tag()+")")
		}
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "invalid fields: "+strings.Join(fields, ", "))
		return
	}
	utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "payload is malformed")
}
