package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ai_feedback/internal/adapters/observability"
)

const (
	DefaultOpenRouterBase  = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel = "openai/gpt-3.5-turbo"
)

type OpenRouter struct {
	caller
	base  string
	key   string
	model string
}

func NewOpenRouter(base, key string, rps int) (*OpenRouter, error) {
	if key == "" {
		return nil, fmt.Errorf("openrouter: API key is required")
	}
	if base == "" {
		base = DefaultOpenRouterBase
	}
	return &OpenRouter{
		caller: newCaller(rps),
		base:   strings.TrimRight(base, "/"),
		key:    key,
		model:  DefaultOpenRouterModel,
	}, nil
}

func (o *OpenRouter) Name() string { return "openrouter" }

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (o *OpenRouter) Generate(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model:    o.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+o.key)

	start := time.Now()
	var resp chatResponse
	if err := o.postJSON(ctx, o.base+"/chat/completions", header, req, &resp); err != nil {
		observability.ObserveLLM(o.Name(), "error", time.Since(start))
		return "", err
	}

	for _, choice := range resp.Choices {
		if s := strings.TrimSpace(choice.Message.Content); s != "" {
			observability.ObserveLLM(o.Name(), "ok", time.Since(start))
			return s, nil
		}
	}
	observability.ObserveLLM(o.Name(), "error", time.Since(start))
	return "", ErrEmptyResponse
}
