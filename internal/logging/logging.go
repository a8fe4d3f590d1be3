// Package logging holds the shared diagnostics logger for the engine.
// Geometry-level failures are recovered locally and never surfaced to
// the end user, so this logger is the only place they remain visible.
// By default nothing is emitted.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler silently discards all log records. Enabled returns false
// so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger, accessed atomically so SetLogger
// may race with logging from a render callback.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the engine-wide diagnostics logger. Pass nil to
// restore the default silent behavior.
//
// Levels used by the engine:
//   - [slog.LevelDebug]: skipped preview frames, cache activity
//   - [slog.LevelWarn]: degenerate cutters and booleans, rollbacks
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current diagnostics logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
