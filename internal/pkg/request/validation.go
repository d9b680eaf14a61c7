package request

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// BookingStatuses lists the values accepted by the booking_status binding tag.
var BookingStatuses = []string{"pending", "accepted", "in_progress", "completed", "cancelled"}

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the custom binding tags on gin's validator engine.
// Safe to call more than once; every call reports the first registration's result.
func RegisterValidators() error {
	registerOnce.Do(func() {
		registerErr = registerValidators(binding.Validator.Engine())
	})
	return registerErr
}

func registerValidators(engine any) error {
	v, ok := engine.(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", engine)
	}
	return v.RegisterValidation("booking_status", validateBookingStatus)
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, s := range BookingStatuses {
		if value == s {
			return true
		}
	}
	return false
}
