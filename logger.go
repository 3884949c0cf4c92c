package forward

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/forward/internal/gpu"
)

// nopHandler drops every record. Enabled reports false, so callers skip
// building attributes while no logger is set.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr holds the logger shared by Sequencer, the render executor and
// internal/gpu.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger sets the logger used while sequencing and executing frames.
// Nothing is logged until it is called; nil silences logging again. It may
// be called while frames are being built on other goroutines.
//
// Records by level:
//   - Debug: every built sequence with its prepass decision, executed
//     frames, and attachments created or released.
//   - Info: the first HandleTable.Init and the first blit shader
//     compilation of an executor.
//   - Warn: an executor destroyed while passes were still queued.
//
// passdump -v installs a text handler on stderr:
//
//	forward.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	gpu.SetLogger(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
