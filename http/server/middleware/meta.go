package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/popreg/http/server"
	"github.com/rise-and-shine/popreg/meta"
)

// NewMetaInjectMW stores the client address, user agent, language and service identity
// in the request context. The trace id is set earlier by the tracing middleware.
func NewMetaInjectMW(serviceName, serviceVersion string) server.Middleware {
	return server.Middleware{
		Priority: 700,
		Handler: func(c *fiber.Ctx) error {
			ctx := meta.InjectMetaToContext(c.UserContext(), map[meta.ContextKey]string{
				meta.IPAddress:      c.IP(),
				meta.UserAgent:      c.Get(fiber.HeaderUserAgent),
				meta.RemoteAddr:     c.Context().RemoteAddr().String(),
				meta.Referer:        c.Get(fiber.HeaderReferer),
				meta.AcceptLanguage: c.Get(fiber.HeaderAcceptLanguage),
				meta.ServiceName:    serviceName,
				meta.ServiceVersion: serviceVersion,
			})
			c.SetUserContext(ctx)

			return c.Next()
		},
	}
}
