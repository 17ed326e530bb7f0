package utils

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	phonePattern = regexp.MustCompile(`^01[0-9]{9}$`)
)

// IsValidMonth reports whether s is a YYYY-MM month key.
func IsValidMonth(s string) bool { return monthPattern.MatchString(s) }

// IsValidPhone reports whether s is an 11-digit local mobile number.
func IsValidPhone(s string) bool { return phonePattern.MatchString(s) }

// RegisterValidators adds the custom binding tags used by request DTOs:
// yyyymm and bdphone.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("yyyymm", func(fl validator.FieldLevel) bool {
		return IsValidMonth(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("bdphone", func(fl validator.FieldLevel) bool {
		return IsValidPhone(fl.Field().String())
	})
}
