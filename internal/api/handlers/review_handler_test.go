package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanderlyst/backend/internal/api/handlers"
	"github.com/wanderlyst/backend/internal/application/services"
	"github.com/wanderlyst/backend/internal/domain/entities"
	apperrors "github.com/wanderlyst/backend/pkg/errors"
)

const testReviewID = "7b4e9c2a-8d1f-4a6b-9e3c-5f0d8a2b7c41"

type stubReviewService struct {
	posted  []services.PostReviewCommand
	updated []services.UpdateReviewCommand
	deleted [][2]string
	review  *entities.Review
	reviews []*entities.Review
	rating  float64
	err     error
}

func (s *stubReviewService) PostReview(ctx context.Context, principal entities.Principal, cmd services.PostReviewCommand) (*entities.Review, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.posted = append(s.posted, cmd)
	return s.review, nil
}

func (s *stubReviewService) UpdateReview(ctx context.Context, principal entities.Principal, cmd services.UpdateReviewCommand) (*entities.Review, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.updated = append(s.updated, cmd)
	return s.review, nil
}

func (s *stubReviewService) DeleteReview(ctx context.Context, principal entities.Principal, reviewID, tourID string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, [2]string{reviewID, tourID})
	return nil
}

func (s *stubReviewService) ListReviews(ctx context.Context) ([]*entities.Review, error) {
	return s.reviews, s.err
}

func (s *stubReviewService) ListReviewsForTour(ctx context.Context, tourID string) ([]*entities.Review, float64, error) {
	return s.reviews, s.rating, s.err
}

func (s *stubReviewService) GetReview(ctx context.Context, reviewID string) (*entities.Review, error) {
	return s.review, s.err
}

func TestReviewHandler_PostReview_Success(t *testing.T) {
	service := &stubReviewService{review: &entities.Review{ID: testReviewID, TourID: testTourID, Rating: 5}}
	handler := handlers.NewReviewHandler(service, nil)

	body := `{"text":"Unforgettable views","rating":5}`
	req := httptest.NewRequest("POST", "/api/tours/"+testTourID+"/reviews", strings.NewReader(body))
	req.SetPathValue("id", testTourID)
	w := httptest.NewRecorder()

	handler.PostReview(w, authenticated(req, entities.RoleCustomer))

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, service.posted, 1)
	assert.Equal(t, testTourID, service.posted[0].TourID)
	assert.Equal(t, 5, service.posted[0].Rating)
}

func TestReviewHandler_PostReview_RatingOutOfRange(t *testing.T) {
	service := &stubReviewService{}
	handler := handlers.NewReviewHandler(service, nil)

	body := `{"text":"too good","rating":6}`
	req := httptest.NewRequest("POST", "/api/tours/"+testTourID+"/reviews", strings.NewReader(body))
	req.SetPathValue("id", testTourID)
	w := httptest.NewRecorder()

	handler.PostReview(w, authenticated(req, entities.RoleCustomer))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, service.posted)
}

func TestReviewHandler_UpdateReview_OtherUsersReview(t *testing.T) {
	service := &stubReviewService{err: apperrors.NewForbiddenError("you may only edit your own reviews")}
	handler := handlers.NewReviewHandler(service, nil)

	body := `{"tour_id":"` + testTourID + `","rating":4}`
	req := httptest.NewRequest("PATCH", "/api/reviews/"+testReviewID, strings.NewReader(body))
	req.SetPathValue("id", testReviewID)
	w := httptest.NewRecorder()

	handler.UpdateReview(w, authenticated(req, entities.RoleCustomer))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReviewHandler_UpdateReview_Success(t *testing.T) {
	service := &stubReviewService{review: &entities.Review{ID: testReviewID}}
	handler := handlers.NewReviewHandler(service, nil)

	body := `{"tour_id":"` + testTourID + `","text":"Even better second time"}`
	req := httptest.NewRequest("PATCH", "/api/reviews/"+testReviewID, strings.NewReader(body))
	req.SetPathValue("id", testReviewID)
	w := httptest.NewRecorder()

	handler.UpdateReview(w, authenticated(req, entities.RoleCustomer))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, service.updated, 1)
	assert.Equal(t, testReviewID, service.updated[0].ReviewID)
	assert.Equal(t, testTourID, service.updated[0].TourID)
	require.NotNil(t, service.updated[0].Text)
	assert.Nil(t, service.updated[0].Rating)
}

func TestReviewHandler_DeleteReview_RequiresTourID(t *testing.T) {
	service := &stubReviewService{}
	handler := handlers.NewReviewHandler(service, nil)

	req := httptest.NewRequest("DELETE", "/api/reviews/"+testReviewID, strings.NewReader(`{}`))
	req.SetPathValue("id", testReviewID)
	w := httptest.NewRecorder()

	handler.DeleteReview(w, authenticated(req, entities.RoleCustomer))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, service.deleted)
}

func TestReviewHandler_DeleteReview_Success(t *testing.T) {
	service := &stubReviewService{}
	handler := handlers.NewReviewHandler(service, nil)

	body := `{"tour_id":"` + testTourID + `"}`
	req := httptest.NewRequest("DELETE", "/api/reviews/"+testReviewID, strings.NewReader(body))
	req.SetPathValue("id", testReviewID)
	w := httptest.NewRecorder()

	handler.DeleteReview(w, authenticated(req, entities.RoleCustomer))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, [][2]string{{testReviewID, testTourID}}, service.deleted)
}

func TestReviewHandler_ListReviewsForTour_IncludesRating(t *testing.T) {
	service := &stubReviewService{
		reviews: []*entities.Review{{ID: testReviewID, Rating: 4}},
		rating:  4.0,
	}
	handler := handlers.NewReviewHandler(service, nil)

	req := httptest.NewRequest("GET", "/api/tours/"+testTourID+"/reviews", nil)
	req.SetPathValue("id", testTourID)
	w := httptest.NewRecorder()

	handler.ListReviewsForTour(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Rating  float64           `json:"rating"`
		Reviews []entities.Review `json:"reviews"`
	}
	err := json.NewDecoder(w.Body).Decode(&response)
	assert.NoError(t, err)
	assert.Equal(t, 4.0, response.Rating)
	assert.Len(t, response.Reviews, 1)
}
