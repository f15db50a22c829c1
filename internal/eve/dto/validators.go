package dto

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the eve rules registered
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		RegisterCustomValidators(validate)
	})
	return validate
}

// RegisterCustomValidators registers custom validation rules for eve DTOs
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("charname", validateCharacterName)
}

// validateCharacterName accepts names the game allows: 3 to 37 characters of
// letters, digits, spaces, hyphens, dots and apostrophes, with no leading or
// trailing space.
func validateCharacterName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if len(name) < 3 || len(name) > 37 {
		return false
	}
	if strings.TrimSpace(name) != name {
		return false
	}

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == ' ', r == '-', r == '.', r == '\'':
		default:
			return false
		}
	}
	return true
}
