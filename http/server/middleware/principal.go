package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/popreg/http/server"
	"github.com/rise-and-shine/popreg/meta"
)

// NewPrincipalMW takes the authenticated account id from header, which must be set by
// a trusted gateway that strips it from client requests. An empty header name yields
// a no-op middleware.
func NewPrincipalMW(header string) server.Middleware {
	if header == "" {
		return server.Middleware{}
	}

	return server.Middleware{
		Priority: 650,
		Handler: func(c *fiber.Ctx) error {
			accountID := strings.TrimSpace(c.Get(header))
			if accountID != "" {
				c.SetUserContext(meta.WithRequestUserID(c.UserContext(), accountID))
				c.Locals(meta.RequestUserID, accountID)
			}
			return c.Next()
		},
	}
}
