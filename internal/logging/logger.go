package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Level represents log severity levels.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	defaultLogger *Logger
	defaultMu     sync.RWMutex
	once          sync.Once
)

// Logger wraps slog with the two capabilities the rest of the tool relies
// on: recording an event and recording an exception.
type Logger struct {
	*slog.Logger

	// exceptions receives Exception records only; nil when the
	// exception log is disabled.
	exceptions *slog.Logger
	closers    []io.Closer
}

// Config holds logger configuration.
type Config struct {
	Level      Level
	Output     io.Writer
	JSON       bool
	AddSource  bool
	TimeFormat string

	// ActionLog, when set, is a file that receives every record as JSON.
	ActionLog string
	// ExceptionLog, when set, is a file that receives Exception records.
	ExceptionLog string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Level:      LevelInfo,
		Output:     os.Stderr,
		TimeFormat: time.RFC3339,
	}
}

// New creates a new Logger with the given configuration. File sinks that
// cannot be opened are reported on the console logger and skipped.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var console slog.Handler
	if cfg.JSON {
		console = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		console = NewConsoleHandler(cfg.Output, opts)
	}

	l := &Logger{}

	var sinkErrs []error
	handlers := []slog.Handler{console}
	if cfg.ActionLog != "" {
		f, err := openLogFile(cfg.ActionLog)
		if err != nil {
			sinkErrs = append(sinkErrs, err)
		} else {
			l.closers = append(l.closers, f)
			handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: LevelDebug}))
		}
	}
	if cfg.ExceptionLog != "" {
		f, err := openLogFile(cfg.ExceptionLog)
		if err != nil {
			sinkErrs = append(sinkErrs, err)
		} else {
			l.closers = append(l.closers, f)
			l.exceptions = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: LevelError}))
		}
	}

	if len(handlers) == 1 {
		l.Logger = slog.New(console)
	} else {
		l.Logger = slog.New(fanout(handlers))
	}

	for _, err := range sinkErrs {
		l.Warn("log sink disabled", "error", err)
	}
	return l
}

// Default returns the default logger, creating it if necessary.
func Default() *Logger {
	once.Do(func() {
		defaultMu.Lock()
		if defaultLogger == nil {
			defaultLogger = New(DefaultConfig())
		}
		defaultMu.Unlock()
	})
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger.
func SetDefault(l *Logger) {
	once.Do(func() {})
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// WithComponent returns a logger with a component field.
func (l *Logger) WithComponent(name string) *Logger {
	c := l.clone()
	c.Logger = l.Logger.With("component", name)
	if l.exceptions != nil {
		c.exceptions = l.exceptions.With("component", name)
	}
	return c
}

// WithFields returns a logger with additional fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	c := l.clone()
	c.Logger = l.Logger.With(args...)
	if l.exceptions != nil {
		c.exceptions = l.exceptions.With(args...)
	}
	return c
}

// Event records a notable action.
func (l *Logger) Event(msg string, args ...any) {
	l.Info(msg, args...)
}

// Exception records a failure together with the error that caused it.
// The record also lands in the exception log when one is configured.
func (l *Logger) Exception(err error, msg string, args ...any) {
	args = append([]any{"error", err}, args...)
	l.Error(msg, args...)
	if l.exceptions != nil {
		l.exceptions.Error(msg, args...)
	}
}

// Close releases any file sinks.
func (l *Logger) Close() error {
	var first error
	for _, c := range l.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	l.closers = nil
	return first
}

func (l *Logger) clone() *Logger {
	return &Logger{
		Logger:     l.Logger,
		exceptions: l.exceptions,
	}
}

// Event records a notable action on the default logger.
func Event(msg string, args ...any) {
	Default().Event(msg, args...)
}

// Exception records an error on the default logger.
func Exception(err error, msg string, args ...any) {
	Default().Exception(err, msg, args...)
}

// WithComponent returns a component-scoped logger.
func WithComponent(name string) *Logger {
	return Default().WithComponent(name)
}
