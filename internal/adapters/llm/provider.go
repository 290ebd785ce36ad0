package llm

import (
	"context"

	"github.com/rs/zerolog/log"

	"ai_feedback/internal/domain"
)

// withFallback tries primary and falls through to secondary on any error.
// Mirrors the original deployment habit of keeping an OpenRouter key around
// for when Gemini quota runs out.
type withFallback struct {
	primary, secondary domain.FeedbackProvider
}

func WithFallback(primary, secondary domain.FeedbackProvider) domain.FeedbackProvider {
	return &withFallback{primary: primary, secondary: secondary}
}

func (w *withFallback) Name() string {
	return w.primary.Name() + "+" + w.secondary.Name()
}

func (w *withFallback) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := w.primary.Generate(ctx, prompt)
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	log.Warn().Err(err).
		Str("primary", w.primary.Name()).
		Str("secondary", w.secondary.Name()).
		Msg("primary LLM provider failed, trying fallback")
	return w.secondary.Generate(ctx, prompt)
}
