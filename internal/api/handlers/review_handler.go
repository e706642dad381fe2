package handlers

import (
	"context"
	"net/http"

	"github.com/wanderlyst/backend/internal/api/middleware"
	"github.com/wanderlyst/backend/internal/application/services"
	"github.com/wanderlyst/backend/internal/domain/entities"
	"github.com/wanderlyst/backend/internal/infrastructure/observability"
)

// ReviewService defines the interface for review operations
type ReviewService interface {
	PostReview(ctx context.Context, principal entities.Principal, cmd services.PostReviewCommand) (*entities.Review, error)
	UpdateReview(ctx context.Context, principal entities.Principal, cmd services.UpdateReviewCommand) (*entities.Review, error)
	DeleteReview(ctx context.Context, principal entities.Principal, reviewID, tourID string) error
	ListReviews(ctx context.Context) ([]*entities.Review, error)
	ListReviewsForTour(ctx context.Context, tourID string) ([]*entities.Review, float64, error)
	GetReview(ctx context.Context, reviewID string) (*entities.Review, error)
}

// ReviewHandler handles review requests
type ReviewHandler struct {
	service ReviewService
	metrics *observability.Metrics
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service ReviewService, metrics *observability.Metrics) *ReviewHandler {
	return &ReviewHandler{service: service, metrics: metrics}
}

type postReviewRequest struct {
	Text   string `json:"text" validate:"required"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
}

// PostReview handles POST /api/tours/{id}/reviews
func (h *ReviewHandler) PostReview(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	principal, _ := middleware.PrincipalFromContext(r.Context())

	var req postReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid review payload")
		return
	}

	review, err := h.service.PostReview(r.Context(), principal, services.PostReviewCommand{
		TourID: tourID,
		Text:   req.Text,
		Rating: req.Rating,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	observability.RecordReviewCreated(r.Context(), h.metrics, tourID, req.Rating)
	respondWithJSON(w, http.StatusCreated, review)
}

type updateReviewRequest struct {
	TourID string  `json:"tour_id" validate:"required,uuid"`
	Text   *string `json:"text"`
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

// UpdateReview handles PATCH /api/reviews/{id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	principal, _ := middleware.PrincipalFromContext(r.Context())

	var req updateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid review payload")
		return
	}

	review, err := h.service.UpdateReview(r.Context(), principal, services.UpdateReviewCommand{
		ReviewID: reviewID,
		TourID:   req.TourID,
		Text:     req.Text,
		Rating:   req.Rating,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, review)
}

type deleteReviewRequest struct {
	TourID string `json:"tour_id" validate:"required,uuid"`
}

// DeleteReview handles DELETE /api/reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	principal, _ := middleware.PrincipalFromContext(r.Context())

	var req deleteReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "tour_id is required")
		return
	}

	if err := h.service.DeleteReview(r.Context(), principal, reviewID, req.TourID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListReviews handles GET /api/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.ListReviews(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reviews)
}

// ListReviewsForTour handles GET /api/tours/{id}/reviews
func (h *ReviewHandler) ListReviewsForTour(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	reviews, rating, err := h.service.ListReviewsForTour(r.Context(), tourID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"rating":  rating,
		"reviews": reviews,
	})
}

// GetReview handles GET /api/reviews/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	review, err := h.service.GetReview(r.Context(), reviewID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, review)
}
