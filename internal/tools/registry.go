package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry holds the tools exposed to agents and lets every surface
// (HTTP API, MCP server, ADK agent, CLI) look them up by name.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// NewDefaultRegistry returns a registry with every Viscribe operation
// registered against client.
func NewDefaultRegistry(client Client, opts ...Option) *Registry {
	r := NewRegistry()
	for _, t := range All(client, opts...) {
		r.Register(t)
	}
	return r
}

// Register adds a tool, replacing any tool with the same name.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// ErrUnknownTool is returned (wrapped) when a name is not registered.
var ErrUnknownTool = fmt.Errorf("unknown tool")

func (r *Registry) Execute(ctx context.Context, name string, input any) (any, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return t.Execute(ctx, input)
}

// ExecuteAsync is the non-blocking counterpart of Execute.
func (r *Registry) ExecuteAsync(ctx context.Context, name string, input any) <-chan Outcome {
	t, ok := r.Get(name)
	if !ok {
		ch := make(chan Outcome, 1)
		ch <- Outcome{Err: fmt.Errorf("%w: %q", ErrUnknownTool, name)}
		close(ch)
		return ch
	}
	if at, ok := t.(AsyncTool); ok {
		return at.ExecuteAsync(ctx, input)
	}
	return ExecuteAsync(ctx, t, input)
}

// List returns all tools sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result
}

// Select returns the subset of tools whose names are listed, in the given
// order. An empty list selects every tool.
func (r *Registry) Select(names []string) ([]Tool, error) {
	if len(names) == 0 {
		return r.List(), nil
	}
	result := make([]Tool, 0, len(names))
	for _, n := range names {
		t, ok := r.Get(n)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTool, n)
		}
		result = append(result, t)
	}
	return result, nil
}

// ToolInfo is the listing shape used by the API and CLI.
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

func (r *Registry) AllTools() []ToolInfo {
	list := r.List()
	result := make([]ToolInfo, 0, len(list))
	for _, t := range list {
		result = append(result, ToolInfo{Name: t.Name(), Description: t.Description(), InputSchema: t.InputSchema()})
	}
	return result
}
