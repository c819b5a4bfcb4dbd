package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vortex-fintech/go-vat/errors"
	"github.com/vortex-fintech/go-vat/jurisdiction"
)

var v *validator.Validate

func init() {
	v = validator.New(validator.WithRequiredStructEnabled())

	// Violations are reported under the JSON name when there is one.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("vat_jurisdiction", func(fl validator.FieldLevel) bool {
		_, err := jurisdiction.Parse(fl.Field().String())
		return err == nil
	})
}

func Instance() *validator.Validate {
	return v
}

// Validate returns field -> reason code, or nil when i is valid.
func Validate(i any) map[string]string {
	if err := v.Struct(i); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			out := make(map[string]string)
			for _, e := range errs {
				out[e.Field()] = mapTagToCode(e.Tag())
			}
			return out
		}
		return map[string]string{"_error": "validation_failed"}
	}
	return nil
}

// Check is Validate as an error: nil or an InvalidArgument ErrorResponse.
func Check(i any) error {
	if fields := Validate(i); fields != nil {
		return errors.ValidationFields(fields)
	}
	return nil
}
