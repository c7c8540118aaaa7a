package val

import (
	"errors"

	"github.com/code19m/errx"
	"github.com/go-playground/validator/v10"
	"github.com/rise-and-shine/popreg/opt"
)

// Fields collects per-field validation problems. The first problem of a field wins.
type Fields struct {
	m errx.M
}

// NewFields returns an empty collector.
func NewFields() *Fields {
	return &Fields{m: make(errx.M)}
}

// Add records msg for field unless the field already has a problem.
func (f *Fields) Add(field, msg string) {
	if _, exists := f.m[field]; exists {
		return
	}
	f.m[field] = msg
}

// Var validates a single value against a validator tag such as "required,max=100".
func (f *Fields) Var(field string, value any, tag string) {
	err := validate.Var(value, tag)
	if err == nil {
		return
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		f.Add(field, getFieldErrDescription(validationErrors[0]))
		return
	}
	f.Add(field, err.Error())
}

// Has reports whether field already has a problem.
func (f *Fields) Has(field string) bool {
	_, exists := f.m[field]
	return exists
}

// Err returns a validation error listing every collected field, or nil.
func (f *Fields) Err() error {
	if len(f.m) == 0 {
		return nil
	}

	return errx.New(
		"Validation failed. See fields for details.",
		errx.WithCode(CodeValidationFailed),
		errx.WithType(errx.T_Validation),
		errx.WithFields(f.m),
	)
}

// Opt validates v against tag when it is present. Absent values are always valid.
func Opt[T any](f *Fields, field string, v opt.Value[T], tag string) {
	value, ok := v.Get()
	if !ok {
		return
	}
	f.Var(field, value, tag)
}
