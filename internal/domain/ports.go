package domain

import "context"

type ReviewRepository interface {
	// Write paths
	InsertReview(ctx context.Context, r Review) error
	UpdateFeedback(ctx context.Context, id, summary, recommendations string) error

	// Read paths
	GetReview(ctx context.Context, id string) (Review, error)
	ListReviews(ctx context.Context) ([]Review, error)
	CountByRating(ctx context.Context) (map[int]int, error)
	ListNeedingFeedback(ctx context.Context, limit int) ([]Review, error)

	Ping(ctx context.Context) error
}

// FeedbackProvider generates text from a prompt via an external LLM.
type FeedbackProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
