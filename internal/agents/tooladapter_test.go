package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soochol/viscribe/internal/tools"
)

type mockTool struct {
	name  string
	calls []any
	out   any
	err   error
}

func (m *mockTool) Name() string        { return m.name }
func (m *mockTool) Description() string { return "A test tool" }
func (m *mockTool) InputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"image_url": map[string]any{"type": "string", "description": "URL of the image."},
			"rating":    map[string]any{"type": "integer"},
		},
		"required": []string{"image_url"},
	}
}
func (m *mockTool) Execute(ctx context.Context, input any) (any, error) {
	m.calls = append(m.calls, input)
	return m.out, m.err
}

func TestADKToolAdapter(t *testing.T) {
	inner := &mockTool{name: "test_tool"}
	adapter := NewADKTool(inner)
	assert.Equal(t, "test_tool", adapter.Name())
	assert.Equal(t, "A test tool", adapter.Description())
	assert.False(t, adapter.IsLongRunning())
	assert.Same(t, inner, adapter.Tool())

	decl := adapter.Declaration()
	assert.Equal(t, "test_tool", decl.Name)
	assert.Equal(t, "A test tool", decl.Description)
	require.NotNil(t, decl.Parameters)
	assert.Equal(t, []string{"image_url"}, decl.Parameters.Required)
}

func TestAdaptTools_DefaultRegistry(t *testing.T) {
	reg := tools.NewDefaultRegistry(nil)
	adapted := AdaptTools(reg.List())
	require.Len(t, adapted, 7)
	for i, tl := range reg.List() {
		assert.Equal(t, tl.Name(), adapted[i].Name())
	}
}

func TestToGenaiSchema(t *testing.T) {
	s := toGenaiSchema((&mockTool{}).InputSchema())
	require.NotNil(t, s)
	assert.Equal(t, []string{"image_url"}, s.Required)
	require.Contains(t, s.Properties, "rating")
	assert.Equal(t, "URL of the image.", s.Properties["image_url"].Description)
	assert.EqualValues(t, "INTEGER", s.Properties["rating"].Type)
	assert.Nil(t, toGenaiSchema(nil))
}
