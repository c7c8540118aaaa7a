// Package forward adapts use cases to fiber handlers: it decodes and validates the
// request, executes the use case and writes its result as JSON.
package forward

import (
	"fmt"
	"reflect"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/popreg/mask"
	"github.com/rise-and-shine/popreg/observability/logger"
	"github.com/rise-and-shine/popreg/ucdef"
	"github.com/rise-and-shine/popreg/val"
)

const maxLogAllowedSize = 8 << 10

// ToUserAction returns a handler executing uc. I must be a pointer to a struct; it is
// decoded from the path, query or body, validated with val.ValidateSchema and passed
// to uc. The result is written with status.
func ToUserAction[I, O any](uc ucdef.UserAction[I, O], status int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := newRequest[I]()
		if err != nil {
			return errx.Wrap(err)
		}

		err = decode(c, req)
		if err != nil {
			return errx.Wrap(err)
		}

		log := logger.
			Named("http.handler").
			WithContext(c.UserContext()).
			With("operation_id", uc.OperationID())

		if len(c.Body()) <= maxLogAllowedSize {
			log = log.With("request_body", mask.StructToOrdMap(req))
		} else {
			log = log.With("request_body", fmt.Sprintf("too large for logging: %d bytes", len(c.Body())))
		}

		err = val.ValidateSchema(req)
		if err != nil {
			return errx.Wrap(err)
		}

		resp, err := uc.Execute(c.UserContext(), req)
		if err != nil {
			return errx.Wrap(err)
		}

		size, err := writeJSON(c, status, resp)
		if err != nil {
			return errx.Wrap(err)
		}

		if size <= maxLogAllowedSize {
			log = log.With("response_body", mask.StructToOrdMap(resp))
		} else {
			log = log.With("response_body", fmt.Sprintf("too large for logging: %d bytes", size))
		}

		log.Debug("user action executed")
		return nil
	}
}

// newRequest allocates the struct I points to.
func newRequest[I any]() (I, error) {
	var req I

	reqType := reflect.TypeOf((*I)(nil)).Elem()
	if reqType.Kind() != reflect.Pointer || reqType.Elem().Kind() != reflect.Struct {
		return req, errx.New("input type I must be a pointer to a struct")
	}

	return reflect.New(reqType.Elem()).Interface().(I), nil //nolint:errcheck // type checked above
}

func writeJSON(c *fiber.Ctx, status int, data any) (int, error) {
	raw, err := c.App().Config().JSONEncoder(data)
	if err != nil {
		return 0, errx.Wrap(err)
	}

	c.Status(status)
	c.Response().SetBodyRaw(raw)
	c.Response().Header.SetContentType(fiber.MIMEApplicationJSON)
	return len(raw), nil
}
