package app

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"ai_feedback/internal/domain"
)

type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetReview(ctx context.Context, id string) (domain.Review, error) {
	key := reviewCacheKey(id)
	var rv domain.Review
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &rv); ok {
			return rv, nil
		}
	}
	rv, err := s.repo.GetReview(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, rv, int(s.cacheTTL.Seconds()))
	}
	return rv, nil
}

func (s *QueryService) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	var out domain.Dashboard
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, dashboardCacheKey, &out); ok {
			return out, nil
		}
	}

	reviews, err := s.repo.ListReviews(ctx)
	if err != nil {
		return domain.Dashboard{}, err
	}
	dist, err := s.repo.CountByRating(ctx)
	if err != nil {
		return domain.Dashboard{}, err
	}

	out = domain.Dashboard{
		Reviews:            reviews,
		TotalCount:         len(reviews),
		RatingDistribution: dist,
		Analytics:          computeAnalytics(reviews),
	}

	if s.cache != nil {
		// optional size guard
		if b, _ := json.Marshal(out); len(b) < 1_000_000 {
			_ = s.cache.Set(ctx, dashboardCacheKey, out, int(s.cacheTTL.Seconds()))
		}
	}
	return out, nil
}

func computeAnalytics(reviews []domain.Review) domain.Analytics {
	a := domain.Analytics{TotalReviews: len(reviews)}
	if a.TotalReviews == 0 {
		return a
	}
	sum := 0
	for _, rv := range reviews {
		sum += rv.Rating
		if rv.Rating <= 2 {
			a.LowRatingsCount++
		}
		if rv.Rating >= 4 {
			a.HighRatingsCount++
		}
	}
	total := float64(a.TotalReviews)
	a.AverageRating = round2(float64(sum) / total)
	a.LowRatingsPct = round2(float64(a.LowRatingsCount) / total * 100)
	a.HighRatingsPct = round2(float64(a.HighRatingsCount) / total * 100)
	return a
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
