package bookings

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Seat labels are a row letter block followed by a seat number, e.g. "A1",
// "AB12".
var seatLabelPattern = regexp.MustCompile(`^[A-Z]{1,2}[0-9]{1,3}$`)

// RegisterValidations installs the custom binding validators this package
// uses. Safe to call more than once.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("seatlabel", func(fl validator.FieldLevel) bool {
			return seatLabelPattern.MatchString(fl.Field().String())
		})
	}
}
