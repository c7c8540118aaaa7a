package forward

import (
	"slices"
	"strings"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
)

// decode fills req from the path parameters, from the query string for reads and
// from the JSON body for writes.
func decode[I any](c *fiber.Ctx, req I) error {
	err := decodePath(c, req)
	if err != nil {
		return err
	}

	if hasBody(c.Method()) {
		return decodeBody(c, req)
	}
	return decodeQuery(c, req)
}

func hasBody(method string) bool {
	return slices.Contains([]string{fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch}, method)
}

func decodeBody[I any](c *fiber.Ctx, req I) error {
	if len(c.Body()) == 0 {
		return nil
	}

	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return errx.New(
			"content type must be application/json",
			errx.WithType(errx.T_Validation),
			errx.WithCode(CodeInvalidContentType),
			errx.WithDetails(errx.D{"content_type": c.Get(fiber.HeaderContentType)}),
		)
	}

	if err := c.BodyParser(req); err != nil {
		return errx.Wrap(
			err,
			errx.WithType(errx.T_Validation),
			errx.WithCode(CodeInvalidJSONBody),
		)
	}

	return nil
}

func decodeQuery[I any](c *fiber.Ctx, req I) error {
	if len(c.Queries()) == 0 {
		return nil
	}

	if err := c.QueryParser(req); err != nil {
		return errx.Wrap(
			err,
			errx.WithType(errx.T_Validation),
			errx.WithCode(CodeInvalidQueryParams),
		)
	}

	return nil
}

func decodePath[I any](c *fiber.Ctx, req I) error {
	if len(c.Route().Params) == 0 {
		return nil
	}

	if err := c.ParamsParser(req); err != nil {
		return errx.Wrap(
			err,
			errx.WithType(errx.T_Validation),
			errx.WithCode(CodeInvalidPathParams),
		)
	}

	return nil
}
