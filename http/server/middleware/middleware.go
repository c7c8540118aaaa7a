// Package middleware provides the fiber middlewares of the HTTP server.
//
// Each middleware declares a priority; higher priorities run earlier:
//
//   - Recovery (1000): converts panics into internal errors
//   - Tracing (900): starts the server span and sets the trace id
//   - Timeout (800): bounds the request context
//   - MetaInject (700): stores request metadata in the context
//   - Principal (650): takes the authenticated account from a trusted header
//   - Logger (500): logs every request with its outcome
//   - ErrorHandler (400): writes the JSON error envelope
//
// Usage:
//
//	srv := server.NewHTTPServer(cfg, []server.Middleware{
//		middleware.NewRecoveryMW(log),
//		middleware.NewTracingMW(),
//		middleware.NewTimeoutMW(cfg.HandleTimeout),
//		middleware.NewMetaInjectMW(name, version),
//		middleware.NewPrincipalMW(cfg.PrincipalHeader),
//		middleware.NewLoggerMW(log),
//		middleware.NewErrorHandlerMW(cfg.HideErrorDetails),
//	})
package middleware
