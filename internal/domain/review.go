package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5

	MinReviewLength = 1
	MaxReviewLength = 5000
)

type Review struct {
	ID                string
	Rating            int
	Text              string
	AISummary         string
	AIRecommendations string
	FeedbackGenerated bool
	CreatedAt         time.Time
}

// Read models

// Analytics summarizes the persisted review set for the admin dashboard.
// Percentages are rounded to two decimal places.
type Analytics struct {
	TotalReviews     int     `json:"total_reviews"`
	AverageRating    float64 `json:"average_rating"`
	LowRatingsCount  int     `json:"low_ratings_count"`
	HighRatingsCount int     `json:"high_ratings_count"`
	LowRatingsPct    float64 `json:"low_ratings_percentage"`
	HighRatingsPct   float64 `json:"high_ratings_percentage"`
}

// Dashboard is the full admin read model: newest-first reviews plus
// per-rating counts and aggregate analytics.
type Dashboard struct {
	Reviews            []Review
	TotalCount         int
	RatingDistribution map[int]int
	Analytics          Analytics
}
