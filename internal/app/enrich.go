package app

import (
	"context"
	"fmt"

	"ai_feedback/internal/domain"
)

// Output caps, in runes. Providers occasionally ramble past their brief.
const (
	maxUserResponseLen = 500
	maxSummaryLen      = 300
	maxActionsLen      = 500
)

const fallbackUserResponse = "Thank you for your feedback. We appreciate your input and will use it to improve our service."

// Enrichment is the LLM-derived view of one submission. UserResponse is
// returned to the submitter but never persisted; Summary and
// RecommendedActions are stored with the review. Generated reports whether
// the stored pair came from a provider rather than fallback text.
type Enrichment struct {
	UserResponse       string
	Summary            string
	RecommendedActions string
	Generated          bool
}

type Enricher struct {
	provider domain.FeedbackProvider
}

// NewEnricher accepts a nil provider; enrichment then always falls back.
func NewEnricher(p domain.FeedbackProvider) *Enricher {
	return &Enricher{provider: p}
}

func (e *Enricher) Available() bool { return e.provider != nil }

// Enrich never fails: each provider error degrades that one field to its
// fallback so a submission is never lost to an LLM outage.
func (e *Enricher) Enrich(ctx context.Context, rating int, text string) Enrichment {
	out := Enrichment{
		UserResponse:       fallbackUserResponse,
		Summary:            fallbackSummary(rating),
		RecommendedActions: fallbackActions(rating),
	}
	if e.provider == nil {
		return out
	}

	summaryOK, actionsOK := false, false
	if s, err := e.provider.Generate(ctx, userResponsePrompt(rating, text)); err == nil {
		out.UserResponse = truncate(s, maxUserResponseLen)
	}
	if s, err := e.provider.Generate(ctx, summaryPrompt(rating, text)); err == nil {
		out.Summary = truncate(s, maxSummaryLen)
		summaryOK = true
	}
	if s, err := e.provider.Generate(ctx, actionsPrompt(rating, text)); err == nil {
		out.RecommendedActions = truncate(s, maxActionsLen)
		actionsOK = true
	}
	out.Generated = summaryOK && actionsOK
	return out
}

// Regenerate produces only the persisted pair, for backfilling rows whose
// enrichment degraded at submission time.
func (e *Enricher) Regenerate(ctx context.Context, rating int, text string) (summary, actions string, err error) {
	if e.provider == nil {
		return "", "", fmt.Errorf("no feedback provider configured")
	}
	summary, err = e.provider.Generate(ctx, summaryPrompt(rating, text))
	if err != nil {
		return "", "", err
	}
	actions, err = e.provider.Generate(ctx, actionsPrompt(rating, text))
	if err != nil {
		return "", "", err
	}
	return truncate(summary, maxSummaryLen), truncate(actions, maxActionsLen), nil
}

func userResponsePrompt(rating int, text string) string {
	return fmt.Sprintf(`A customer submitted a %d-star review for a restaurant.

Review: "%s"

Generate a brief, professional, and empathetic response (2-3 sentences) that:
- Acknowledges their feedback
- Shows appreciation for their input
- Is appropriate for the rating level

Response:`, rating, text)
}

func summaryPrompt(rating int, text string) string {
	return fmt.Sprintf(`Summarize this %d-star restaurant review in 1-2 sentences, highlighting the key points:

Review: "%s"

Summary:`, rating, text)
}

func actionsPrompt(rating int, text string) string {
	return fmt.Sprintf(`Based on this %d-star restaurant review, suggest 2-3 specific, actionable recommendations for the restaurant management:

Review: "%s"

Provide recommendations as a bulleted list. Be specific and practical.

Recommendations:`, rating, text)
}

func fallbackSummary(rating int) string {
	return fmt.Sprintf("%d-star review", rating)
}

func fallbackActions(rating int) string {
	switch {
	case rating <= 2:
		return "• Follow up with customer to address concerns\n• Review service protocols\n• Investigate specific issues mentioned"
	case rating == 3:
		return "• Identify areas for improvement\n• Consider customer feedback in planning"
	default:
		return "• Maintain current service standards\n• Share positive feedback with staff\n• Consider highlighting strengths in marketing"
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
