package controllers

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"stay-booking/filters"
	"stay-booking/models"
	"stay-booking/services"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags to gin's validator engine.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("distance_range", func(fl validator.FieldLevel) bool {
			raw := fl.Field().String()
			if raw == "" {
				return true
			}
			_, _, err := services.ParseDistance(raw)
			return err == nil
		})
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			raw := fl.Field().String()
			return raw == "" || models.ValidCategory(raw)
		})
		_ = v.RegisterValidation("amenity", func(fl validator.FieldLevel) bool {
			for _, a := range filters.Amenities {
				if a == fl.Field().String() {
					return true
				}
			}
			return false
		})
	})
}
