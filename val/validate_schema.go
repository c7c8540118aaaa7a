package val

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/code19m/errx"
	"github.com/go-playground/validator/v10"
)

const (
	CodeValidationFailed = "VALIDATION_FAILED"
)

// FieldValidator is implemented by payloads that need checks struct tags cannot express,
// such as optional fields of a partial update.
type FieldValidator interface {
	ValidateFields(f *Fields)
}

// ValidateSchema validates schema by its `validate` struct tags and, when schema
// implements FieldValidator, by its explicit checks. All problems are reported together.
func ValidateSchema(schema any) error {
	f := NewFields()

	err := validate.Struct(schema)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return errx.New(
				fmt.Sprintf("Unknown validation error: %s", err.Error()),
				errx.WithCode(CodeValidationFailed),
				errx.WithType(errx.T_Validation),
			)
		}
		for _, fieldErr := range validationErrors {
			f.Add(fieldPath(fieldErr), getFieldErrDescription(fieldErr))
		}
	}

	if fv, ok := schema.(FieldValidator); ok {
		fv.ValidateFields(f)
	}

	return f.Err()
}

// fieldPath drops the root struct name from the namespace, keeping nested and
// indexed positions such as "ids[2]".
func fieldPath(fieldErr validator.FieldError) string {
	ns := fieldErr.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fieldErr.Field()
}

func getFieldErrDescription(fieldErr validator.FieldError) string {
	param := fieldErr.Param()
	isString := fieldErr.Kind() == reflect.String

	switch fieldErr.Tag() {
	case "required", "notblank":
		return "This field is required"
	case "min":
		if isString {
			return fmt.Sprintf("Must be at least %s characters", param)
		}
		if fieldErr.Kind() == reflect.Slice {
			return fmt.Sprintf("Must contain at least %s items", param)
		}
		return fmt.Sprintf("Must be at least %s", param)
	case "max":
		if isString {
			return fmt.Sprintf("Must be at most %s characters", param)
		}
		return fmt.Sprintf("Must be at most %s", param)
	case "len":
		if isString {
			return fmt.Sprintf("Must be exactly %s characters", param)
		}
		return fmt.Sprintf("Must have exactly %s items", param)
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", param)
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", param)
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(param, " ", ", "))
	case "email":
		return "Invalid email format"
	case "numeric":
		return "Must be a valid number"
	case "uuid":
		return "Must be a valid UUID"
	case "datetime":
		return fmt.Sprintf("Must be a valid datetime in format: %s", param)
	case "nik":
		return "Must be a valid NIK (16 digits)"
	}

	return fmt.Sprintf("Failed validation: %s", fieldErr.Tag())
}
