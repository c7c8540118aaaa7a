package server

import (
	"sort"

	"github.com/gofiber/fiber/v2"
)

// Middleware is a fiber handler with an ordering priority. Higher priorities run first.
type Middleware struct {
	Priority int
	Handler  fiber.Handler
}

// ByOrder sorts middlewares by descending priority.
type ByOrder []Middleware

func (b ByOrder) Len() int { return len(b) }

func (b ByOrder) Swap(i, j int) { b[i], b[j] = b[j], b[i] }

func (b ByOrder) Less(i, j int) bool { return b[i].Priority > b[j].Priority }

// applyMiddlewares registers middlewares in priority order, skipping nil handlers.
func applyMiddlewares(app *fiber.App, middlewares []Middleware) {
	sort.Stable(ByOrder(middlewares))
	for _, mw := range middlewares {
		if mw.Handler == nil {
			continue
		}
		app.Use(mw.Handler)
	}
}
