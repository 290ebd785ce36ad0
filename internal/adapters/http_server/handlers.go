// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"ai_feedback/internal/adapters/observability"
	"ai_feedback/internal/app"
	"ai_feedback/internal/domain"
)

type Handlers struct {
	Sub *app.SubmissionService
	Q   *app.QueryService

	// health probes
	DB           domain.ReviewRepository
	LLMAvailable bool
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/", h.index)
	s.mux.Get("/health", h.health)
	s.mux.Post("/api/submit-review", h.submitReview)
	s.mux.Get("/api/admin/reviews", h.adminReviews)
	s.mux.Get("/api/admin/reviews/{reviewID}", h.adminReviewByID)
}

// ---- wire types ----

type submitRequest struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

type submitResponse struct {
	Success    bool   `json:"success"`
	ReviewID   string `json:"review_id,omitempty"`
	AIResponse string `json:"ai_response,omitempty"`
	Error      string `json:"error,omitempty"`
}

type reviewItem struct {
	ReviewID             string `json:"review_id"`
	Rating               int    `json:"rating"`
	ReviewText           string `json:"review_text"`
	AISummary            string `json:"ai_summary"`
	AIRecommendedActions string `json:"ai_recommended_actions"`
	CreatedAt            string `json:"created_at"`
}

type dashboardResponse struct {
	Reviews            []reviewItem     `json:"reviews"`
	TotalCount         int              `json:"total_count"`
	RatingDistribution map[int]int      `json:"rating_distribution"`
	Analytics          domain.Analytics `json:"analytics"`
}

type healthResponse struct {
	Status            string `json:"status"`
	DatabaseConnected bool   `json:"database_connected"`
	LLMAvailable      bool   `json:"llm_available"`
}

func toItem(rv domain.Review) reviewItem {
	return reviewItem{
		ReviewID:             rv.ID,
		Rating:               rv.Rating,
		ReviewText:           rv.Text,
		AISummary:            rv.AISummary,
		AIRecommendedActions: rv.AIRecommendations,
		CreatedAt:            rv.CreatedAt.Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// userMessage strips the validation sentinel prefix from wrapped errors.
func userMessage(err error) string {
	return strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": ")
}

// ---- handlers ----

func (h *Handlers) index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "AI Feedback System API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":             "/health",
			"submit_review":      "POST /api/submit-review",
			"admin_reviews":      "GET /api/admin/reviews",
			"admin_review_by_id": "GET /api/admin/reviews/<review_id>",
		},
		"status": "running",
	})
}

// health always answers 200; DB trouble only flips the status to degraded.
func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbOK := h.DB != nil && h.DB.Ping(ctx) == nil
	status := "healthy"
	if !dbOK {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:            status,
		DatabaseConnected: dbOK,
		LLMAvailable:      h.LLMAvailable,
	})
}

func (h *Handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, submitResponse{Success: false, Error: "No data provided"})
		return
	}

	rv, aiResponse, err := h.Sub.Submit(r.Context(), req.Rating, req.ReviewText)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, submitResponse{Success: false, Error: userMessage(err)})
			return
		}
		log.Error().Err(err).Msg("submit review failed")
		writeJSON(w, http.StatusInternalServerError, submitResponse{Success: false, Error: "Failed to save review"})
		return
	}

	observability.ObserveSubmission(rv.Rating)
	writeJSON(w, http.StatusCreated, submitResponse{
		Success:    true,
		ReviewID:   rv.ID,
		AIResponse: aiResponse,
	})
}

func (h *Handlers) adminReviews(w http.ResponseWriter, r *http.Request) {
	dash, err := h.Q.Dashboard(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load dashboard failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	items := make([]reviewItem, 0, len(dash.Reviews))
	for _, rv := range dash.Reviews {
		items = append(items, toItem(rv))
	}
	writeJSON(w, http.StatusOK, dashboardResponse{
		Reviews:            items,
		TotalCount:         dash.TotalCount,
		RatingDistribution: dash.RatingDistribution,
		Analytics:          dash.Analytics,
	})
}

func (h *Handlers) adminReviewByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reviewID")
	rv, err := h.Q.GetReview(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Review not found"})
			return
		}
		log.Error().Err(err).Str("review_id", id).Msg("get review failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toItem(rv))
}
