// Package einotool exposes the image tools as Eino invokable tools, so
// they can be bound to an Eino ToolCallingChatModel or ReAct agent.
package einotool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/soochol/viscribe/internal/tools"
)

// Tool adapts a tools.Tool to Eino's tool.InvokableTool interface.
type Tool struct {
	inner tools.Tool
}

var _ tool.InvokableTool = (*Tool)(nil)

func New(t tools.Tool) *Tool {
	return &Tool{inner: t}
}

// Info builds the Eino ToolInfo from the tool's JSON schema.
func (t *Tool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	inputSchema := t.inner.InputSchema()
	required := map[string]bool{}
	switch req := inputSchema["required"].(type) {
	case []string:
		for _, r := range req {
			required[r] = true
		}
	case []any:
		for _, r := range req {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	props, _ := inputSchema["properties"].(map[string]any)
	params := make(map[string]*schema.ParameterInfo, len(props))
	for name, v := range props {
		prop, _ := v.(map[string]any)
		desc, _ := prop["description"].(string)
		typ, _ := prop["type"].(string)
		params[name] = &schema.ParameterInfo{
			Desc:     desc,
			Type:     toSchemaDataType(typ),
			Required: required[name],
		}
	}

	info := &schema.ToolInfo{
		Name: t.inner.Name(),
		Desc: t.inner.Description(),
	}
	if len(params) > 0 {
		info.ParamsOneOf = schema.NewParamsOneOfByParams(params)
	}
	return info, nil
}

// InvokableRun executes the tool with JSON arguments and returns the
// JSON encoded result object.
func (t *Tool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	args := map[string]any{}
	if argumentsInJSON != "" && argumentsInJSON != "{}" {
		if err := json.Unmarshal([]byte(argumentsInJSON), &args); err != nil {
			return "", fmt.Errorf("failed to unmarshal arguments JSON: %w", err)
		}
	}

	result, err := t.inner.Execute(ctx, args)
	if err != nil {
		return "", fmt.Errorf("%s: %w", t.inner.Name(), err)
	}

	out, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s result: %w", t.inner.Name(), err)
	}
	return string(out), nil
}

func (t *Tool) IsStream() bool {
	return false
}

func toSchemaDataType(t string) schema.DataType {
	switch t {
	case "number":
		return schema.Number
	case "integer":
		return schema.Integer
	case "boolean":
		return schema.Boolean
	case "object":
		return schema.Object
	case "array":
		return schema.Array
	default:
		return schema.String
	}
}
