package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTool struct{}

func (e *echoTool) Name() string                { return "echo" }
func (e *echoTool) Description() string         { return "Echoes input" }
func (e *echoTool) InputSchema() map[string]any { return map[string]any{"type": "object"} }
func (e *echoTool) Execute(ctx context.Context, input any) (any, error) {
	return input, nil
}

func TestToolRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&echoTool{})
	tool, ok := reg.Get("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", tool.Name())
}

func TestToolRegistry_Execute(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&echoTool{})
	result, err := reg.Execute(context.Background(), "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", result)
}

func TestToolRegistry_Execute_Unknown(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Execute(context.Background(), "unknown", nil)
	assert.True(t, errors.Is(err, ErrUnknownTool))
}

func TestToolRegistry_ExecuteAsync(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&echoTool{})

	out := <-reg.ExecuteAsync(context.Background(), "echo", "hi")
	require.NoError(t, out.Err)
	assert.Equal(t, "hi", out.Output)

	out = <-reg.ExecuteAsync(context.Background(), "nope", nil)
	assert.True(t, errors.Is(out.Err, ErrUnknownTool))
}

func TestDefaultRegistry_ListsSevenSortedTools(t *testing.T) {
	reg := NewDefaultRegistry(&stubClient{})
	var names []string
	for _, tool := range reg.List() {
		names = append(names, tool.Name())
	}
	assert.Equal(t, []string{
		AskImageName,
		ClassifyImageName,
		CompareImagesName,
		DescribeImageName,
		ExtractImageName,
		GetCreditsName,
		SubmitFeedbackName,
	}, names)

	infos := reg.AllTools()
	require.Len(t, infos, 7)
	assert.Equal(t, "object", infos[0].InputSchema["type"])
}

func TestToolRegistry_Select(t *testing.T) {
	reg := NewDefaultRegistry(&stubClient{})

	all, err := reg.Select(nil)
	require.NoError(t, err)
	assert.Len(t, all, 7)

	some, err := reg.Select([]string{GetCreditsName, AskImageName})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, GetCreditsName, some[0].Name())

	_, err = reg.Select([]string{"Nope"})
	assert.True(t, errors.Is(err, ErrUnknownTool))
}
