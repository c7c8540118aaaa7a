// Package hooks contains bun query hooks used by every registry database handle.
package hooks

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rise-and-shine/popreg/observability/logger"
	"github.com/uptrace/bun"
)

var _ bun.QueryHook = (*DebugHook)(nil)

// DebugHook logs executed queries through the global logger.
// Failed and slow queries are always logged; successful ones only in verbose mode.
type DebugHook struct {
	enabled            bool
	verbose            bool
	slowQueryThreshold time.Duration
}

// DebugHookOption configures a DebugHook.
type DebugHookOption func(*DebugHook)

// NewDebugHook creates a hook that is enabled, verbose, with a 100ms slow query threshold
// unless overridden by opts.
func NewDebugHook(opts ...DebugHookOption) *DebugHook {
	hook := &DebugHook{
		enabled:            true,
		verbose:            true,
		slowQueryThreshold: 100 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(hook)
	}

	return hook
}

// WithEnabled turns the hook on or off.
func WithEnabled(enabled bool) DebugHookOption {
	return func(h *DebugHook) {
		h.enabled = enabled
	}
}

// WithVerbose controls whether successful queries are logged at debug level.
func WithVerbose(verbose bool) DebugHookOption {
	return func(h *DebugHook) {
		h.verbose = verbose
	}
}

// WithSlowQueryThreshold sets the duration from which a query is logged at warn level.
// Zero disables slow query detection.
func WithSlowQueryThreshold(threshold time.Duration) DebugHookOption {
	return func(h *DebugHook) {
		h.slowQueryThreshold = threshold
	}
}

// BeforeQuery implements bun.QueryHook.
func (h *DebugHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

// AfterQuery implements bun.QueryHook.
func (h *DebugHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if !h.enabled {
		return
	}

	level := h.classify(event)
	if level == levelSkip {
		return
	}

	entry := logger.Named("pg.query").
		WithContext(ctx).
		With("query", strings.ReplaceAll(event.Query, `"`, "")).
		With("duration", time.Since(event.StartTime).Round(time.Microsecond))

	msg := "[pg] " + event.Operation()
	switch level {
	case levelError:
		entry.With("error", event.Err).Error(msg)
	case levelWarn:
		if event.Err != nil {
			entry = entry.With("error", event.Err)
		}
		entry.Warn(msg)
	default:
		entry.Debug(msg)
	}
}

type logLevel int

const (
	levelSkip logLevel = iota
	levelDebug
	levelWarn
	levelError
)

// classify picks the log level for a finished query. Missing rows and finished
// transactions are expected outcomes, not failures.
func (h *DebugHook) classify(event *bun.QueryEvent) logLevel {
	expected := errors.Is(event.Err, sql.ErrNoRows) || errors.Is(event.Err, sql.ErrTxDone)
	switch {
	case event.Err != nil && !expected:
		return levelError
	case h.slowQueryThreshold > 0 && time.Since(event.StartTime) >= h.slowQueryThreshold:
		return levelWarn
	case h.verbose:
		return levelDebug
	default:
		return levelSkip
	}
}
