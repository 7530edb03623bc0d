package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// MonthLayout is the wire format for month tokens.
const MonthLayout = "2006-01"

// ParseDate parses a wire-format calendar date into a UTC time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders a time as a wire-format calendar date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// RegisterCustomValidators installs the binding validators the request DTOs
// rely on: "dateonly" for YYYY-MM-DD fields and "month" for YYYY-MM tokens.
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("dateonly", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	return v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		_, err := time.ParseInLocation(MonthLayout, fl.Field().String(), time.UTC)
		return err == nil
	})
}
