package logger

import (
	"context"
	"sync"
	"sync/atomic"
)

//nolint:gochecknoglobals // process-wide logger
var (
	global   atomic.Value // Logger
	setOnce  sync.Once
	initOnce sync.Once
)

// SetGlobal configures the global logger. It panics when called twice or when
// cfg is invalid, so call it once during startup before anything logs.
func SetGlobal(cfg Config) {
	called := false
	setOnce.Do(func() {
		initOnce.Do(func() {})

		l, err := New(cfg)
		if err != nil {
			panic("[logger]: failed to initialize global logger: " + err.Error())
		}
		global.Store(l)
		called = true
	})
	if !called {
		panic("[logger]: SetGlobal can only be called once")
	}
}

func Debug(msg any) { getGlobal().Debug(msg) }
func Info(msg any)  { getGlobal().Info(msg) }
func Warn(msg any)  { getGlobal().Warn(msg) }
func Error(msg any) { getGlobal().Error(msg) }
func Fatal(msg any) { getGlobal().Fatal(msg) }

func Infof(format string, args ...any) { getGlobal().Infof(format, args...) }

func Warnx(err error)  { getGlobal().Warnx(err) }
func Errorx(err error) { getGlobal().Errorx(err) }

func With(keysAndValues ...any) Logger { return getGlobal().With(keysAndValues...) }

func WithContext(ctx context.Context) Logger { return getGlobal().WithContext(ctx) }

func Named(name string) Logger { return getGlobal().Named(name) }

func Sync() error { return getGlobal().Sync() }

// getGlobal returns the configured logger, falling back to a console logger at
// debug level when SetGlobal was never called.
func getGlobal() Logger {
	initOnce.Do(func() {
		l, err := New(Config{Level: levelDebug, Encoding: encConsole})
		if err != nil {
			panic("[logger]: failed to initialize default logger: " + err.Error())
		}
		global.Store(l)
	})

	l, ok := global.Load().(Logger)
	if !ok {
		panic("[logger]: global contains invalid type")
	}
	return l
}
