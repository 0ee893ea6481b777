package model

import (
	"context"
	"fmt"
	"iter"
	"sync"

	adkmodel "google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/soochol/viscribe/internal/config"
)

var _ adkmodel.LLM = (*GeminiLLM)(nil)

// GeminiLLM drives the chat agent through the google.golang.org/genai
// SDK. Function declarations in the request config are passed through,
// so the model can call the image tools.
type GeminiLLM struct {
	apiKey  string
	baseURL string
	name    string
	once    sync.Once
	client  *genai.Client
	initErr error
}

// GeminiOption configures a GeminiLLM.
type GeminiOption func(*GeminiLLM)

// WithGeminiBaseURL points the client at a different endpoint.
func WithGeminiBaseURL(u string) GeminiOption {
	return func(g *GeminiLLM) { g.baseURL = u }
}

// NewGeminiLLM creates a Gemini adapter. The client is created lazily on
// the first call.
func NewGeminiLLM(apiKey string, opts ...GeminiOption) *GeminiLLM {
	g := &GeminiLLM{name: "gemini", apiKey: apiKey}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *GeminiLLM) Name() string { return g.name }

func (g *GeminiLLM) ensureClient(ctx context.Context) error {
	g.once.Do(func() {
		cc := &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		}
		if g.baseURL != "" {
			cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
		}
		g.client, g.initErr = genai.NewClient(ctx, cc)
	})
	return g.initErr
}

func (g *GeminiLLM) GenerateContent(ctx context.Context, req *adkmodel.LLMRequest, stream bool) iter.Seq2[*adkmodel.LLMResponse, error] {
	return func(yield func(*adkmodel.LLMResponse, error) bool) {
		emitLog(ctx, fmt.Sprintf("gemini: calling model %s", req.Model))

		if g.apiKey == "" {
			err := fmt.Errorf("gemini: API key not configured (set %s)", config.EnvGeminiAPIKey)
			emitLog(ctx, err.Error())
			yield(nil, err)
			return
		}
		if err := g.ensureClient(ctx); err != nil {
			yield(nil, fmt.Errorf("gemini: client init failed: %w", err))
			return
		}

		cfg := req.Config
		if cfg == nil {
			cfg = &genai.GenerateContentConfig{}
		}

		if stream {
			for resp, err := range g.client.Models.GenerateContentStream(ctx, req.Model, req.Contents, cfg) {
				if err != nil {
					emitLog(ctx, fmt.Sprintf("gemini error: %s", err))
					yield(nil, fmt.Errorf("gemini: %w", err))
					return
				}
				if !yield(convertGeminiResponse(resp), nil) {
					return
				}
			}
			return
		}

		resp, err := g.client.Models.GenerateContent(ctx, req.Model, req.Contents, cfg)
		if err != nil {
			emitLog(ctx, fmt.Sprintf("gemini error: %s", err))
			yield(nil, fmt.Errorf("gemini: %w", err))
			return
		}
		emitLog(ctx, "gemini: response received")
		yield(convertGeminiResponse(resp), nil)
	}
}

func init() {
	RegisterProvider("gemini", func(cfg config.AgentConfig) adkmodel.LLM {
		return NewGeminiLLM(cfg.APIKey)
	})
}

func convertGeminiResponse(resp *genai.GenerateContentResponse) *adkmodel.LLMResponse {
	if resp == nil || len(resp.Candidates) == 0 {
		return &adkmodel.LLMResponse{TurnComplete: true}
	}
	c := resp.Candidates[0]
	r := &adkmodel.LLMResponse{
		Content:      c.Content,
		TurnComplete: c.FinishReason != "" && c.FinishReason != genai.FinishReasonUnspecified,
		FinishReason: c.FinishReason,
	}
	if resp.UsageMetadata != nil {
		r.UsageMetadata = resp.UsageMetadata
	}
	return r
}
