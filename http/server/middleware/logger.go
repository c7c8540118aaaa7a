package middleware

import (
	"time"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/popreg/http/server"
	"github.com/rise-and-shine/popreg/observability/logger"
)

// NewLoggerMW logs each request with its status, route and duration. Server errors are
// logged at error level, client errors at warn level, the rest at info level.
func NewLoggerMW(log logger.Logger) server.Middleware {
	log = log.Named("http.request")

	return server.Middleware{
		Priority: 500,
		Handler: func(c *fiber.Ctx) error {
			start := time.Now()

			err := c.Next()

			statusCode := c.Response().StatusCode()
			l := log.WithContext(c.UserContext()).With(
				"http_status_code", statusCode,
				"http_method", c.Method(),
				"http_path", c.Path(),
				"http_route", c.Route().Path,
				"duration", time.Since(start),
				"query_params", c.Queries(),
				"request_size", len(c.Body()),
			)

			if err != nil {
				e := errx.AsErrorX(err)
				l = l.With("error", map[string]any{
					"code":    e.Code(),
					"message": e.Error(),
					"type":    e.Type().String(),
					"trace":   e.Trace(),
					"fields":  e.Fields(),
					"details": e.Details(),
				})
			}

			switch {
			case statusCode >= fiber.StatusInternalServerError:
				l.Error("request failed")
			case statusCode >= fiber.StatusBadRequest:
				l.Warn("request rejected")
			default:
				l.Info("request processed successfully")
			}

			return err
		},
	}
}
