package tools

import "context"

// Tool is a named, described, schema-validated callable. Host agent
// frameworks (ADK, Eino, MCP, the HTTP API) adapt it to their own contract.
type Tool interface {
	Name() string
	Description() string
	InputSchema() map[string]any
	Execute(ctx context.Context, input any) (any, error)
}

// Outcome is the result of an asynchronous execution.
type Outcome struct {
	Output any
	Err    error
}

// AsyncTool is implemented by tools with a non-blocking entry point.
type AsyncTool interface {
	Tool
	ExecuteAsync(ctx context.Context, input any) <-chan Outcome
}

// ExecuteAsync runs t.Execute on its own goroutine. The returned channel
// yields exactly one Outcome and is then closed. Validation and result
// mapping are the same as the synchronous call.
func ExecuteAsync(ctx context.Context, t Tool, input any) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		out, err := t.Execute(ctx, input)
		ch <- Outcome{Output: out, Err: err}
	}()
	return ch
}
