package registry

import (
	"strings"
	"time"

	"github.com/code19m/errx"
	"github.com/google/uuid"
	"github.com/rise-and-shine/popreg/opt"
	"github.com/rise-and-shine/popreg/val"
)

const dateLayout = time.DateOnly

func parseID(field, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, invalidField(field, "Must be a valid UUID")
	}
	return id, nil
}

func parseDate(field, s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, invalidField(field, "Must be a valid datetime in format: "+dateLayout)
	}
	return d, nil
}

func invalidField(field, msg string) error {
	return errx.New(
		"Validation failed. See fields for details.",
		errx.WithType(errx.T_Validation),
		errx.WithCode(val.CodeValidationFailed),
		errx.WithFields(errx.M{field: msg}),
	)
}

// applyText overwrites *dst with the trimmed value when present.
func applyText(v opt.Value[string], dst *string) {
	if s, ok := v.Get(); ok {
		*dst = strings.TrimSpace(s)
	}
}
