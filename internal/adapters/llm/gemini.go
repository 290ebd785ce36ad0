package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai_feedback/internal/adapters/observability"
)

const (
	DefaultGeminiBase  = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel = "gemini-2.5-flash"
)

type Gemini struct {
	caller
	base  string
	key   string
	model string
}

func NewGemini(base, key string, rps int) (*Gemini, error) {
	if key == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if base == "" {
		base = DefaultGeminiBase
	}
	return &Gemini{
		caller: newCaller(rps),
		base:   strings.TrimRight(base, "/"),
		key:    key,
		model:  DefaultGeminiModel,
	}, nil
}

func (g *Gemini) Name() string { return "gemini" }

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.base, g.model, g.key)
	req := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 1024,
		},
	}

	start := time.Now()
	var resp geminiResponse
	if err := g.postJSON(ctx, url, nil, req, &resp); err != nil {
		observability.ObserveLLM(g.Name(), "error", time.Since(start))
		return "", err
	}

	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if s := strings.TrimSpace(part.Text); s != "" {
				observability.ObserveLLM(g.Name(), "ok", time.Since(start))
				return s, nil
			}
		}
	}
	observability.ObserveLLM(g.Name(), "error", time.Since(start))
	return "", ErrEmptyResponse
}
