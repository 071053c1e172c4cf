package logging

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// WithContext stores the logger on the context for downstream stages.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the context logger, falling back to a no-op logger so
// callers never need a nil check.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return NewNop()
}
