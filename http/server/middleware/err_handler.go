package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/popreg/http/server"
)

// NewErrorHandlerMW writes the JSON error envelope for errors returned by handlers.
// The error is still returned so outer middlewares can log and trace it.
func NewErrorHandlerMW(hideDetails bool) server.Middleware {
	return server.Middleware{
		Priority: 400,
		Handler: func(c *fiber.Ctx) error {
			err := c.Next()
			if err == nil {
				return nil
			}

			if c.Response().StatusCode() >= fiber.StatusBadRequest {
				return err
			}

			return server.WriteErrorResponse(c, err, hideDetails)
		},
	}
}
