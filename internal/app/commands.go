package app

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"ai_feedback/internal/domain"
)

const dashboardCacheKey = "dashboard:v1"

func reviewCacheKey(id string) string { return "review:" + id }

type SubmissionService struct {
	repo     domain.ReviewRepository
	enricher *Enricher
	cache    domain.Cache
}

func NewSubmissionService(r domain.ReviewRepository, e *Enricher, c domain.Cache) *SubmissionService {
	return &SubmissionService{repo: r, enricher: e, cache: c}
}

// Submit validates, enriches, and persists one review. The returned string is
// the submitter-facing AI acknowledgement, which is not stored.
func (s *SubmissionService) Submit(ctx context.Context, rating int, text string) (domain.Review, string, error) {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return domain.Review{}, "", fmt.Errorf("%w: rating must be between %d and %d",
			domain.ErrValidation, domain.MinRating, domain.MaxRating)
	}
	// limits count characters, not bytes
	if utf8.RuneCountInString(text) > domain.MaxReviewLength {
		return domain.Review{}, "", fmt.Errorf("%w: review text exceeds maximum length of %d characters",
			domain.ErrValidation, domain.MaxReviewLength)
	}
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < domain.MinReviewLength {
		return domain.Review{}, "", fmt.Errorf("%w: review text cannot be empty", domain.ErrValidation)
	}

	enr := s.enricher.Enrich(ctx, rating, text)

	rv := domain.Review{
		ID:                uuid.NewString(),
		Rating:            rating,
		Text:              text,
		AISummary:         enr.Summary,
		AIRecommendations: enr.RecommendedActions,
		FeedbackGenerated: enr.Generated,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.repo.InsertReview(ctx, rv); err != nil {
		return domain.Review{}, "", fmt.Errorf("save review: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Del(ctx, dashboardCacheKey)
	}
	return rv, enr.UserResponse, nil
}

// BackfillService regenerates persisted AI fields for reviews whose
// enrichment degraded to fallback text at submission time.
type BackfillService struct {
	repo     domain.ReviewRepository
	enricher *Enricher
	cache    domain.Cache
}

func NewBackfillService(r domain.ReviewRepository, e *Enricher, c domain.Cache) *BackfillService {
	return &BackfillService{repo: r, enricher: e, cache: c}
}

func (s *BackfillService) ListPending(ctx context.Context, limit int) ([]domain.Review, error) {
	return s.repo.ListNeedingFeedback(ctx, limit)
}

func (s *BackfillService) BackfillReview(ctx context.Context, rv domain.Review) error {
	summary, actions, err := s.enricher.Regenerate(ctx, rv.Rating, rv.Text)
	if err != nil {
		return fmt.Errorf("regenerate feedback for %s: %w", rv.ID, err)
	}
	if err := s.repo.UpdateFeedback(ctx, rv.ID, summary, actions); err != nil {
		return fmt.Errorf("update feedback for %s: %w", rv.ID, err)
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, dashboardCacheKey)
		_ = s.cache.Del(ctx, reviewCacheKey(rv.ID))
	}
	return nil
}
