package agents

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const chatUserID = "default"

// ChatResult is the outcome of one agent invocation.
type ChatResult struct {
	Answer    string
	ToolCalls []string
}

// Chat runs a single prompt through agent a on a fresh in-memory session and
// returns the final answer with the names of the tools the model called.
func Chat(ctx context.Context, a agent.Agent, prompt string) (*ChatResult, error) {
	sessionSvc := session.InMemoryService()
	appName := a.Name()

	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          a,
		SessionService: sessionSvc,
	})
	if err != nil {
		return nil, fmt.Errorf("create runner: %w", err)
	}

	sessionID := "session-" + uuid.NewString()
	_, err = sessionSvc.Create(ctx, &session.CreateRequest{
		AppName:   appName,
		UserID:    chatUserID,
		SessionID: sessionID,
		State:     map[string]any{PromptStateKey: prompt},
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	result := &ChatResult{}
	userContent := genai.NewContentFromText(prompt, genai.RoleUser)
	for event, err := range r.Run(ctx, chatUserID, sessionID, userContent, agent.RunConfig{}) {
		if err != nil {
			return nil, err
		}
		if event == nil || event.Content == nil {
			continue
		}
		for _, p := range event.Content.Parts {
			if p.FunctionCall != nil {
				result.ToolCalls = append(result.ToolCalls, p.FunctionCall.Name)
			}
		}
		if event.TurnComplete {
			result.Answer = textOf(event.Content)
		}
	}
	return result, nil
}
