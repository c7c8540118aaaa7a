package middleware_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/popreg/http/server"
	"github.com/rise-and-shine/popreg/http/server/middleware"
	"github.com/rise-and-shine/popreg/meta"
	"github.com/rise-and-shine/popreg/observability/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, routes func(r fiber.Router)) *fiber.App {
	t.Helper()

	log, err := logger.New(logger.Config{Disable: true})
	require.NoError(t, err)

	srv := server.NewHTTPServer(server.Config{Host: "localhost", Port: 8080, BodyLimit: 1 << 20}, []server.Middleware{
		middleware.NewErrorHandlerMW(true),
		middleware.NewLoggerMW(log),
		middleware.NewPrincipalMW("X-Account-ID"),
		middleware.NewMetaInjectMW("popreg", "test"),
		middleware.NewTimeoutMW(time.Second),
		middleware.NewTracingMW(),
		middleware.NewRecoveryMW(log),
	})
	srv.RegisterRouter(routes)
	return srv.App()
}

func get(t *testing.T, app *fiber.App, target string, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp, body
}

func TestRequestContext(t *testing.T) {
	var (
		traceID, language, account string
		deadline                   bool
	)
	app := newServer(t, func(r fiber.Router) {
		r.Get("/ctx", func(c *fiber.Ctx) error {
			ctx := c.UserContext()
			traceID = meta.Find(ctx, meta.TraceID)
			language = meta.Find(ctx, meta.AcceptLanguage)
			account, _ = meta.RequestUser(ctx)
			_, deadline = ctx.Deadline()
			return c.JSON(fiber.Map{"ok": true})
		})
	})

	resp, _ := get(t, app, "/ctx", map[string]string{
		"X-Account-ID":             " acc-1 ",
		fiber.HeaderAcceptLanguage: "id",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, traceID, resp.Header.Get("X-Trace-ID"))
	assert.Equal(t, "id", language)
	assert.Equal(t, "acc-1", account)
	assert.True(t, deadline)
}

func TestErrorEnvelope(t *testing.T) {
	app := newServer(t, func(r fiber.Router) {
		r.Get("/missing", func(_ *fiber.Ctx) error {
			return errx.New("resident not found",
				errx.WithType(errx.T_NotFound),
				errx.WithCode("RESIDENT_NOT_FOUND"),
				errx.WithDetails(errx.D{"id": "x"}),
			)
		})
	})

	resp, body := get(t, app, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, resp.Header.Get("X-Trace-ID"), body["trace_id"])

	e, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "RESIDENT_NOT_FOUND", e["code"])
	assert.NotContains(t, e, "details", "details are hidden")
}

func TestUnknownRoute(t *testing.T) {
	app := newServer(t, func(fiber.Router) {})

	resp, body := get(t, app, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	e, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, server.CodeRouterError, e["code"])
}

func TestRecovery(t *testing.T) {
	app := newServer(t, func(r fiber.Router) {
		r.Get("/panic", func(_ *fiber.Ctx) error {
			panic("boom")
		})
	})

	resp, body := get(t, app, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	_, ok := body["error"].(map[string]any)
	assert.True(t, ok)
}

func TestTimeout(t *testing.T) {
	app := newServer(t, func(r fiber.Router) {
		r.Get("/slow", func(c *fiber.Ctx) error {
			<-c.UserContext().Done()
			return errx.Wrap(c.UserContext().Err())
		})
	})

	resp, _ := get(t, app, "/slow", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestPrincipalDisabled(t *testing.T) {
	assert.Nil(t, middleware.NewPrincipalMW("").Handler)

	var cfg server.Config
	require.NoError(t, defaults.Set(&cfg))

	var found bool
	srv := server.NewHTTPServer(server.Config{Host: "localhost", Port: 8080, BodyLimit: 1 << 20}, []server.Middleware{
		middleware.NewPrincipalMW(cfg.PrincipalHeader),
	})
	srv.RegisterRouter(func(r fiber.Router) {
		r.Get("/who", func(c *fiber.Ctx) error {
			_, found = meta.RequestUser(c.UserContext())
			return c.SendStatus(http.StatusNoContent)
		})
	})

	resp, _ := get(t, srv.App(), "/who", map[string]string{"X-Account-ID": "acc-1"})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.False(t, found, "client header must not set the principal by default")
}
