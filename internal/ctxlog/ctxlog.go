// Package ctxlog carries a *slog.Logger through context.Context so that
// loaders and the resolver log with the attributes of their caller.
package ctxlog

import (
	"context"
	"log/slog"
)

// loggerKey is unexported so no other package can collide with it.
type loggerKey struct{}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default() when the
// context has none.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}
