package agents

import "context"

// ToolLogFunc is called once per tool invocation made by an agent, with
// the tool name and either "ok" or the error text.
type ToolLogFunc func(toolName, message string)

type toolLogFuncKey struct{}

// WithToolLogFunc returns a context carrying a tool log function.
func WithToolLogFunc(ctx context.Context, fn ToolLogFunc) context.Context {
	return context.WithValue(ctx, toolLogFuncKey{}, fn)
}

func toolLogFuncFromContext(ctx context.Context) ToolLogFunc {
	fn, _ := ctx.Value(toolLogFuncKey{}).(ToolLogFunc)
	return fn
}
