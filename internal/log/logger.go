package log

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/felixgeelhaar/crewgen/internal/errors"
)

type ctxKey struct{}

// Logger provides structured logging with slog
type Logger struct {
	slog *slog.Logger
}

// New creates a new Logger with the given configuration
func New(config Config) *Logger {
	opts := &slog.HandlerOptions{
		Level:     config.Level.ToSlogLevel(),
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	switch config.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(config.writer(), opts)
	default:
		handler = slog.NewTextHandler(config.writer(), opts)
	}

	l := slog.New(handler)
	if config.ServiceName != "" {
		l = l.With("service", config.ServiceName)
	}
	if config.ServiceVersion != "" {
		l = l.With("version", config.ServiceVersion)
	}

	return &Logger{slog: l}
}

// With returns a new Logger with the given attributes added to all log entries
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...)}
}

// WithError adds error details to the logger.
// A CrewError anywhere in the chain contributes its code and suggestions.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.With(errorArgs(err, "error")...)
}

// NewContext returns a child context carrying l. Code further down the call
// chain picks it up with FromContext and inherits its attributes.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored by NewContext. Without one it returns
// fallback, or the default logger when fallback is nil.
func FromContext(ctx context.Context, fallback *Logger) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*Logger); ok && l != nil {
			return l
		}
	}
	if fallback != nil {
		return fallback
	}
	return DefaultLogger()
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

// DebugContext logs a debug message with context
func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.slog.DebugContext(ctx, msg, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

// InfoContext logs an info message with context
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.slog.InfoContext(ctx, msg, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// WarnContext logs a warning message with context
func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.slog.WarnContext(ctx, msg, args...)
}

// LogError logs err at error level with its code, suggestions and cause
func (l *Logger) LogError(err error) {
	if err == nil {
		return
	}
	l.slog.Error("operation failed", errorArgs(err, "error_message")...)
}

func errorArgs(err error, msgKey string) []any {
	var crewErr *errors.CrewError
	if !stderrors.As(err, &crewErr) {
		return []any{"error", err.Error()}
	}

	args := []any{
		msgKey, crewErr.Message,
		"error_code", string(crewErr.Code),
	}
	if len(crewErr.Suggestions) > 0 {
		args = append(args, "suggestions", crewErr.Suggestions)
	}
	if crewErr.DocsURL != "" {
		args = append(args, "docs_url", crewErr.DocsURL)
	}
	if crewErr.Cause != nil {
		args = append(args, "cause", crewErr.Cause.Error())
	}
	return args
}
