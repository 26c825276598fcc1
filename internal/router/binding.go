package router

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/booking-api/internal/model"
)

// registerValidations installs the booking-specific binding validators used
// by the request structs. Rejecting malformed dates and times at the binding
// layer keeps handler error messages consistent with the other field errors.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("dateonly", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
		_, err := model.ParseTimeOfDay(fl.Field().String())
		return err == nil
	})
}
