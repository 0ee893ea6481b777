package agents

import (
	adktool "google.golang.org/adk/tool"
	"google.golang.org/genai"

	"github.com/soochol/viscribe/internal/tools"
)

// ADKTool exposes a tools.Tool through ADK's tool.Tool interface so the
// Viscribe operations can be listed on ADK agents.
type ADKTool struct {
	inner tools.Tool
}

func NewADKTool(t tools.Tool) *ADKTool {
	return &ADKTool{inner: t}
}

func (a *ADKTool) Name() string        { return a.inner.Name() }
func (a *ADKTool) Description() string { return a.inner.Description() }

// IsLongRunning is false: every image operation answers within one
// request/response round trip.
func (a *ADKTool) IsLongRunning() bool { return false }

// Tool returns the wrapped tool.
func (a *ADKTool) Tool() tools.Tool { return a.inner }

// Declaration is the function declaration advertised to the model.
func (a *ADKTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        a.inner.Name(),
		Description: a.inner.Description(),
		Parameters:  toGenaiSchema(a.inner.InputSchema()),
	}
}

// AdaptTools converts tools to ADK tool.Tool values.
func AdaptTools(ts []tools.Tool) []adktool.Tool {
	result := make([]adktool.Tool, len(ts))
	for i, t := range ts {
		result[i] = NewADKTool(t)
	}
	return result
}
