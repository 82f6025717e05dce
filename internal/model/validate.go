package model

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Both registrations only fail on an empty tag or a nil func.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		return f.Kind() != reflect.String || strings.TrimSpace(f.String()) != ""
	})
	_ = v.RegisterValidation("f1team", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.String {
			return false
		}
		_, ok := ParseTeam(f.String())
		return ok
	})
	return v
}

// ValidateStruct checks s against its `validate` tags. Besides the stock
// rules, "notblank" rejects whitespace-only strings and "f1team" requires a
// member of Teams (case-insensitive).
func ValidateStruct(s any) error {
	return validate.Struct(s)
}
