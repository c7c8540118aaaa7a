package middleware

import (
	"runtime"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/popreg/http/server"
	"github.com/rise-and-shine/popreg/observability/logger"
)

const stackTraceSize = 4 << 10

// NewRecoveryMW converts panics of the handler chain into internal errors carrying
// the panic message and stack trace.
func NewRecoveryMW(log logger.Logger) server.Middleware {
	log = log.Named("http.recovery")

	return server.Middleware{
		Priority: 1000,
		Handler: func(c *fiber.Ctx) (err error) {
			defer func() {
				if r := recover(); r != nil {
					stackTrace := make([]byte, stackTraceSize)
					stackTrace = stackTrace[:runtime.Stack(stackTrace, false)]

					log.WithContext(c.UserContext()).
						With("stack_trace", string(stackTrace), "panic_message", r).
						Error("recovered from panic")

					err = errx.New("panic recovered", errx.WithDetails(errx.D{
						"stack_trace":   string(stackTrace),
						"panic_message": r,
					}))
					_ = server.WriteErrorResponse(c, err, true)
				}
			}()

			return c.Next()
		},
	}
}
