package agents

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"google.golang.org/adk/agent"
	adkmodel "google.golang.org/adk/model"
	"google.golang.org/adk/session"
	adktool "google.golang.org/adk/tool"
	"google.golang.org/genai"

	"github.com/soochol/viscribe/internal/tools"
)

// PromptStateKey is the session state key holding the user's request.
const PromptStateKey = "__prompt__"

// ResultStateKey is the session state key the agent writes its final
// answer to.
const ResultStateKey = "answer"

const (
	DefaultAgentName = "viscribe"
	DefaultMaxTurns  = 10
)

const defaultSystemPrompt = `You are an image analysis assistant backed by the Viscribe API.
Use the available tools to describe, question, classify, extract data from, or compare images.
Each image must be given as exactly one of a URL, base64 content, or a local file path.
Report request_id values so the user can leave feedback.`

// ImageAgentConfig configures NewImageAgent.
type ImageAgentConfig struct {
	Name         string
	Model        string
	SystemPrompt string
	// MaxTurns bounds the number of model calls per invocation.
	MaxTurns    int
	Temperature *float32
}

// NewImageAgent builds an ADK agent that runs an LLM tool-use loop over
// the given tools, which must come from AdaptTools. The prompt is read
// from PromptStateKey and the final text answer is stored under
// ResultStateKey.
func NewImageAgent(cfg ImageAgentConfig, llm adkmodel.LLM, toolset []adktool.Tool) (agent.Agent, error) {
	if llm == nil {
		return nil, fmt.Errorf("image agent: no LLM configured")
	}
	if cfg.Name == "" {
		cfg.Name = DefaultAgentName
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}

	byName := make(map[string]tools.Tool, len(toolset))
	funcDecls := make([]*genai.FunctionDeclaration, 0, len(toolset))
	for _, at := range toolset {
		t, ok := at.(*ADKTool)
		if !ok {
			return nil, fmt.Errorf("image agent: unsupported tool type %T", at)
		}
		if _, dup := byName[t.Name()]; dup {
			return nil, fmt.Errorf("image agent: duplicate tool %q", t.Name())
		}
		byName[t.Name()] = t.Tool()
		funcDecls = append(funcDecls, t.Declaration())
	}

	name := cfg.Name
	return agent.New(agent.Config{
		Name:        name,
		Description: "Answers questions about images using the Viscribe tools",
		Run: func(ctx agent.InvocationContext) iter.Seq2[*session.Event, error] {
			return func(yield func(*session.Event, error) bool) {
				state := ctx.Session().State()

				prompt := ""
				if v, err := state.Get(PromptStateKey); err == nil && v != nil {
					prompt = fmt.Sprintf("%v", v)
				}
				if strings.TrimSpace(prompt) == "" {
					yield(nil, fmt.Errorf("agent %q: empty prompt", name))
					return
				}

				contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
				genCfg := &genai.GenerateContentConfig{
					SystemInstruction: genai.NewContentFromText(cfg.SystemPrompt, genai.RoleUser),
				}
				if cfg.Temperature != nil {
					genCfg.Temperature = cfg.Temperature
				}
				if len(funcDecls) > 0 {
					genCfg.Tools = []*genai.Tool{{FunctionDeclarations: funcDecls}}
				}

				for turn := 0; turn < cfg.MaxTurns; turn++ {
					req := &adkmodel.LLMRequest{
						Model:    cfg.Model,
						Config:   genCfg,
						Contents: contents,
					}

					var resp *adkmodel.LLMResponse
					for r, err := range llm.GenerateContent(ctx, req, false) {
						if err != nil {
							yield(nil, fmt.Errorf("LLM call failed for agent %q: %w", name, err))
							return
						}
						resp = r
					}
					if resp == nil || resp.Content == nil {
						yield(nil, fmt.Errorf("empty LLM response for agent %q", name))
						return
					}

					var toolCalls []*genai.FunctionCall
					for _, p := range resp.Content.Parts {
						if p.FunctionCall != nil {
							toolCalls = append(toolCalls, p.FunctionCall)
						}
					}

					if len(toolCalls) == 0 {
						result := strings.TrimSpace(textOf(resp.Content))
						_ = state.Set(ResultStateKey, result)

						event := session.NewEvent(ctx.InvocationID())
						event.Author = name
						event.Branch = ctx.Branch()
						event.LLMResponse = adkmodel.LLMResponse{
							Content:       resp.Content,
							TurnComplete:  true,
							FinishReason:  resp.FinishReason,
							UsageMetadata: resp.UsageMetadata,
						}
						event.Actions.StateDelta[ResultStateKey] = result
						yield(event, nil)
						return
					}

					callEvent := session.NewEvent(ctx.InvocationID())
					callEvent.Author = name
					callEvent.Branch = ctx.Branch()
					callEvent.LLMResponse = adkmodel.LLMResponse{Content: resp.Content}
					if !yield(callEvent, nil) {
						return
					}

					contents = append(contents, resp.Content)
					toolRespContent := executeToolCalls(ctx, toolCalls, byName)
					contents = append(contents, toolRespContent)

					respEvent := session.NewEvent(ctx.InvocationID())
					respEvent.Author = name
					respEvent.Branch = ctx.Branch()
					respEvent.LLMResponse = adkmodel.LLMResponse{Content: toolRespContent}
					if !yield(respEvent, nil) {
						return
					}
				}

				yield(nil, fmt.Errorf("agent %q exceeded max turns (%d)", name, cfg.MaxTurns))
			}
		},
	})
}

func textOf(c *genai.Content) string {
	var sb strings.Builder
	for _, p := range c.Parts {
		if p.Text != "" {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// executeToolCalls runs each function call and returns a Content with the
// FunctionResponse parts to feed back to the model.
func executeToolCalls(ctx context.Context, calls []*genai.FunctionCall, byName map[string]tools.Tool) *genai.Content {
	parts := make([]*genai.Part, 0, len(calls))
	for _, fc := range calls {
		parts = append(parts, &genai.Part{
			FunctionResponse: &genai.FunctionResponse{
				ID:       fc.ID,
				Name:     fc.Name,
				Response: executeSingleTool(ctx, fc, byName),
			},
		})
	}
	return &genai.Content{Role: genai.RoleUser, Parts: parts}
}

// executeSingleTool runs one tool call with panic recovery. Failures are
// reported to the model as {"error": ...} rather than aborting the loop.
func executeSingleTool(ctx context.Context, fc *genai.FunctionCall, byName map[string]tools.Tool) (output map[string]any) {
	logFn := toolLogFuncFromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			output = map[string]any{"error": fmt.Sprintf("tool %q panicked: %v", fc.Name, r)}
		}
		if msg, failed := output["error"].(string); failed {
			slog.Warn("tool call failed", "tool", fc.Name, "err", msg)
			if logFn != nil {
				logFn(fc.Name, msg)
			}
		} else if logFn != nil {
			logFn(fc.Name, "ok")
		}
	}()

	t, ok := byName[fc.Name]
	if !ok {
		return map[string]any{"error": fmt.Sprintf("unknown tool %q", fc.Name)}
	}
	result, err := t.Execute(ctx, fc.Args)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	if m, ok := result.(map[string]any); ok {
		return m
	}
	return map[string]any{"result": fmt.Sprintf("%v", result)}
}
