package observability

import (
	"context"
	"log/slog"

	"github.com/gemrest/september/internal/logfields"
)

// LogContext carries the request-scoped fields every gateway log line
// should repeat.
type LogContext struct {
	RequestID string
	Mode      string
	Target    string
}

// Attrs returns the non-empty fields as slog attributes.
func (lc LogContext) Attrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 3)
	if lc.RequestID != "" {
		attrs = append(attrs, logfields.RequestID(lc.RequestID))
	}
	if lc.Mode != "" {
		attrs = append(attrs, logfields.Mode(lc.Mode))
	}
	if lc.Target != "" {
		attrs = append(attrs, logfields.Target(lc.Target))
	}
	return attrs
}

type logContextKey struct{}

func update(ctx context.Context, set func(*LogContext)) context.Context {
	lc := GetContext(ctx)
	set(&lc)
	return context.WithValue(ctx, logContextKey{}, lc)
}

// WithRequestID tags ctx with the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.RequestID = id })
}

// WithMode tags ctx with the classified route mode.
func WithMode(ctx context.Context, mode string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.Mode = mode })
}

// WithTarget tags ctx with the capsule URL being served.
func WithTarget(ctx context.Context, target string) context.Context {
	return update(ctx, func(lc *LogContext) { lc.Target = target })
}

// GetContext returns the fields stored on ctx, or the zero LogContext.
func GetContext(ctx context.Context) LogContext {
	lc, _ := ctx.Value(logContextKey{}).(LogContext)
	return lc
}

func logAt(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	logger := slog.Default()
	if !logger.Enabled(ctx, level) {
		return
	}
	logger.LogAttrs(ctx, level, msg, append(GetContext(ctx).Attrs(), attrs...)...)
}

func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAt(ctx, slog.LevelDebug, msg, attrs)
}

func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAt(ctx, slog.LevelInfo, msg, attrs)
}

func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAt(ctx, slog.LevelWarn, msg, attrs)
}

func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logAt(ctx, slog.LevelError, msg, attrs)
}
