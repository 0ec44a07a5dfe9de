// Package log is the logging facade used by the indexer and the command line
// driver. Output goes to stderr so that a dump can be streamed to stdout.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

var (
	level  = new(slog.LevelVar)
	logger atomic.Pointer[slog.Logger]
)

func init() {
	SetOutput(os.Stderr)
}

// SetOutput replaces the destination of log records. The current level is kept.
func SetOutput(w io.Writer) {
	SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// SetLogger replaces the underlying logger.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

// Logger returns the underlying logger.
func Logger() *slog.Logger {
	return logger.Load()
}

// Configure sets the minimum level from the command line switches. Quiet wins
// over verbose.
func Configure(verbose, quiet bool) {
	switch {
	case quiet:
		level.Set(slog.LevelWarn)
	case verbose:
		level.Set(slog.LevelDebug)
	default:
		level.Set(slog.LevelInfo)
	}
}

func Debug(msg string, args ...any) { Logger().Debug(msg, args...) }
func Info(msg string, args ...any)  { Logger().Info(msg, args...) }
func Warn(msg string, args ...any)  { Logger().Warn(msg, args...) }
func Error(msg string, args ...any) { Logger().Error(msg, args...) }

// Infoln logs its operands, space separated, at info level.
func Infoln(args ...interface{}) {
	Logger().Info(sprintln(args...))
}

func sprintln(args ...interface{}) string {
	s := fmt.Sprintln(args...)
	return s[:len(s)-1]
}
