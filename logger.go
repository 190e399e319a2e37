package glcanvas

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/glcanvas/gpu"
	"github.com/gogpu/glcanvas/internal/assert"
	"github.com/gogpu/glcanvas/internal/clip"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for glcanvas and all its sub-packages.
// By default, glcanvas produces no log output. Pass nil to restore the
// silent default.
//
// Log levels used by glcanvas:
//   - [slog.LevelDebug]: GPU state and batch diagnostics
//   - [slog.LevelInfo]: lifecycle events (shader library built, context
//     attached, native variant chosen)
//   - [slog.LevelWarn]: graceful degradation (software fallback, failed
//     framebuffer allocation, teardown timeout)
//
// Example:
//
//	glcanvas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	gpu.SetLogger(l)
	clip.SetLogger(l)
}

// Logger returns the current logger. The driver and native packages log
// through it.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

func contract(cond bool, msg string, args ...any) bool {
	return assert.That(Logger(), cond, msg, args...)
}
