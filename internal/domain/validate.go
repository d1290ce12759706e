package domain

import (
	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/lightning-alert-service/internal/quadkey"
)

// validate is shared by strike and asset decoding. validator.Validate caches
// struct metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// quadkey: 1-30 digits, each 0-3.
	if err := v.RegisterValidation("quadkey", func(fl validator.FieldLevel) bool {
		return quadkey.Valid(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}
