package log

import (
	"context"

	"github.com/anchore/go-logger"
)

type ctxKey struct{}

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, lgr logger.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, lgr)
}

// FromContext returns the logger carried by ctx, or the global logger when there is none.
func FromContext(ctx context.Context) logger.Logger {
	if lgr, ok := ctx.Value(ctxKey{}).(logger.Logger); ok && lgr != nil {
		return lgr
	}
	return Get()
}

// WithNested derives a logger with the given key-value fields from the one in ctx and returns it along
// with a context carrying it.
func WithNested(ctx context.Context, fields ...any) (context.Context, logger.Logger) {
	lgr := FromContext(ctx).Nested(fields...)
	return WithLogger(ctx, lgr), lgr
}
