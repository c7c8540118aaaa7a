// Package val validates request payloads with go-playground/validator and reports
// every problem at once as a validation error carrying per-field messages.
package val

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator() //nolint:gochecknoglobals // validator caches struct metadata and is safe for concurrent use

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(getTagName)

	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "nik", func(fl validator.FieldLevel) bool {
		return IsNIK(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// getTagName returns the name of a struct field based on its struct tags.
// It checks 'json', 'query', and 'params' tags in that order, and falls back
// to the field name if none of those tags have a non-empty name component.
func getTagName(fld reflect.StructField) string {
	for _, tagName := range []string{"json", "query", "params"} {
		name := strings.SplitN(fld.Tag.Get(tagName), ",", 2)[0] //nolint:mnd // name and options
		if name != "" && name != "-" {
			return name
		}
	}

	return fld.Name
}
