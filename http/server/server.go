// Package server provides the fiber HTTP server with prioritized middleware and a
// uniform JSON error envelope.
package server

import "github.com/gofiber/fiber/v2"

// HTTPServer is a fiber application bound to a listen address.
type HTTPServer struct {
	cfg        Config
	router     *fiber.App
	listenAddr string
}

// NewHTTPServer creates a server with the middlewares applied in descending priority.
func NewHTTPServer(cfg Config, middlewares []Middleware) *HTTPServer {
	router := fiber.New(fiber.Config{
		ReadTimeout:              cfg.ReadTimeout,
		WriteTimeout:             cfg.WriteTimeout,
		IdleTimeout:              cfg.IdleTimeout,
		ErrorHandler:             customErrorHandler(cfg.HideErrorDetails),
		DisableStartupMessage:    true,
		Immutable:                true,
		BodyLimit:                cfg.BodyLimit,
		EnableSplittingOnParsers: true,
	})

	applyMiddlewares(router, middlewares)

	return &HTTPServer{
		cfg:        cfg,
		router:     router,
		listenAddr: cfg.Address(),
	}
}

// RegisterRouter registers routes with the server.
func (s *HTTPServer) RegisterRouter(registerFunc func(r fiber.Router)) {
	registerFunc(s.router)
}

// App returns the underlying fiber application.
func (s *HTTPServer) App() *fiber.App {
	return s.router
}

// Start listens on the configured address until Stop is called.
func (s *HTTPServer) Start() error {
	return s.router.Listen(s.listenAddr)
}

// Stop shuts the server down, letting in-flight requests complete.
func (s *HTTPServer) Stop() error {
	return s.router.Shutdown()
}
