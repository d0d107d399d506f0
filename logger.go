package sceneview

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that the
// worker goroutine can log while the command swaps loggers.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for sceneview and all its sub-packages.
// By default nothing is logged. Pass nil to restore the silent logger.
//
// Log levels used by sceneview:
//   - [slog.LevelDebug]: per-frame and per-build details (build time, tiles)
//   - [slog.LevelInfo]: lifecycle events (scene loaded, worker started/stopped)
//   - [slog.LevelWarn]: recoverable problems (a reloaded scene failed to parse)
//   - [slog.LevelError]: fatal build failures, right before the process exits
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages call this so that a
// single SetLogger call configures the whole pipeline.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
