// Package util provides the structured logger shared by the command layer
// and the toolchain managers.
//
// Output semantics:
//   - User output (stdout): check reports, progress, status lines
//   - Diagnostic logging (stderr): Debug, Info, Warn, Error messages
//
// Verbosity levels:
//   - ERROR (--quiet): errors only
//   - WARN (default): warnings and user output
//   - INFO (--verbose): operational context
//   - DEBUG (--debug): subprocess argv, metadata URLs, probed paths
package util

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

const (
	// EnvVerbose forces INFO level when set to "true"
	EnvVerbose = "LANGREV_VERBOSE"
	// EnvDebug forces DEBUG level when set to "true"
	EnvDebug = "LANGREV_DEBUG"
)

// Logger is the interface for structured logging.
// Methods match slog's signature.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a Logger that adds the given key-value pairs to every entry.
	With(args ...any) Logger
}

type slogLogger struct {
	l *slog.Logger
}

// New creates a Logger backed by slog with the given handler.
func New(h slog.Handler) Logger {
	return &slogLogger{l: slog.New(h)}
}

// NewText creates a text Logger writing to w at the given level.
func NewText(w io.Writer, level slog.Level) Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}

type noopLogger struct{}

// NewNoop returns a logger that discards all output.
func NewNoop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) With(...any) Logger   { return noopLogger{} }

var (
	defaultLogger Logger = noopLogger{}
	defaultMu     sync.RWMutex
)

// Default returns the global logger, a noop logger until SetDefault is called.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the global logger. Called once from the root command after
// the verbosity flags are parsed.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// IsVerbose returns true if verbose logging is forced through the environment
func IsVerbose() bool {
	return os.Getenv(EnvVerbose) == "true"
}

// IsDebug returns true if debug logging is forced through the environment
func IsDebug() bool {
	return os.Getenv(EnvDebug) == "true"
}

// DetermineLevel maps the root command flags and environment to a slog level.
// Debug beats verbose, and quiet only applies when neither is set.
func DetermineLevel(quiet, verbose, debug bool) slog.Level {
	switch {
	case debug || IsDebug():
		return slog.LevelDebug
	case verbose || IsVerbose():
		return slog.LevelInfo
	case quiet:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
