package model

import "context"

// LogFunc is a callback for emitting model-level log messages without
// coupling the adapters to slog or a transport.
type LogFunc func(message string)

type logFuncKey struct{}

// WithLogFunc returns a context carrying a log callback.
func WithLogFunc(ctx context.Context, fn LogFunc) context.Context {
	return context.WithValue(ctx, logFuncKey{}, fn)
}

// emitLog calls the log callback on the context, if one is set.
func emitLog(ctx context.Context, msg string) {
	if fn, ok := ctx.Value(logFuncKey{}).(LogFunc); ok {
		fn(msg)
	}
}
