package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wanderlyst/backend/internal/domain/entities"
	"github.com/wanderlyst/backend/internal/domain/repositories"
	apperrors "github.com/wanderlyst/backend/pkg/errors"
)

// ReviewService orchestrates review create/update/delete together with the
// owning tour's aggregate rating and review back-reference list.
//
// Every rating mutation is a read-modify-write over the tour's (rating,
// review count) pair, so mutations are serialized per tour; without that, two
// concurrent posts read the same base and one contribution is silently
// miscounted. The review write and the tour write are still two store
// operations: a failure between them is surfaced as internal and leaves a
// dangling-but-removable review reference.
type ReviewService struct {
	reviewRepo repositories.ReviewRepository
	tourRepo   repositories.TourRepository
	locks      *tourLocks
}

// NewReviewService creates a new review service
func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	tourRepo repositories.TourRepository,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		tourRepo:   tourRepo,
		locks:      newTourLocks(),
	}
}

// PostReviewCommand is the validated input for PostReview.
type PostReviewCommand struct {
	TourID string
	Text   string
	Rating int
}

// PostReview creates a review and folds its rating into the tour's aggregate.
func (s *ReviewService) PostReview(ctx context.Context, principal entities.Principal, cmd PostReviewCommand) (*entities.Review, error) {
	if strings.TrimSpace(cmd.Text) == "" {
		return nil, apperrors.NewValidationError("review text must not be empty")
	}
	if cmd.Rating < 1 || cmd.Rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}

	unlock := s.locks.lock(cmd.TourID)
	defer unlock()

	tour, err := s.tourRepo.GetByID(ctx, cmd.TourID)
	if err != nil {
		return nil, err
	}
	if tour == nil {
		return nil, apperrors.NewNotFoundError("no tour found with id " + cmd.TourID)
	}

	newRating := RatingAfterAdd(tour.Rating, len(tour.Reviews), cmd.Rating)

	review := &entities.Review{
		ID:        uuid.New().String(),
		UserID:    principal.UserID,
		TourID:    cmd.TourID,
		Text:      cmd.Text,
		Rating:    cmd.Rating,
		CreatedAt: time.Now(),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, apperrors.NewInternalError("failed to create review", err)
	}

	// Rating and review list change together in one record update.
	reviews := AddUnique(tour.Reviews, review.ID)
	if err := s.tourRepo.UpdateAggregate(ctx, tour.ID, newRating, reviews); err != nil {
		return nil, apperrors.NewInternalError("failed to update tour aggregate", err)
	}

	return review, nil
}

// UpdateReviewCommand is the validated input for UpdateReview. Nil fields are
// left unchanged.
type UpdateReviewCommand struct {
	ReviewID string
	TourID   string
	Text     *string
	Rating   *int
}

// UpdateReview edits a review's text and rating. Only the author may edit.
// When the rating changes the tour aggregate is recomputed and written first;
// when it is absent the tour is untouched.
func (s *ReviewService) UpdateReview(ctx context.Context, principal entities.Principal, cmd UpdateReviewCommand) (*entities.Review, error) {
	if cmd.Rating != nil && (*cmd.Rating < 1 || *cmd.Rating > 5) {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}
	if cmd.Text != nil && strings.TrimSpace(*cmd.Text) == "" {
		return nil, apperrors.NewValidationError("review text must not be empty")
	}

	unlock := s.locks.lock(cmd.TourID)
	defer unlock()

	review, err := s.reviewRepo.GetByID(ctx, cmd.ReviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, apperrors.NewNotFoundError("no review found with id " + cmd.ReviewID)
	}

	tour, err := s.tourRepo.GetByID(ctx, cmd.TourID)
	if err != nil {
		return nil, err
	}
	if tour == nil {
		return nil, apperrors.NewNotFoundError("no tour found with id " + cmd.TourID)
	}

	if review.UserID != principal.UserID {
		return nil, apperrors.NewForbiddenError("review belongs to another user")
	}

	if cmd.Rating != nil {
		newRating, err := RatingAfterEdit(tour.Rating, len(tour.Reviews), review.Rating, *cmd.Rating)
		if err != nil {
			return nil, err
		}
		if err := s.tourRepo.UpdateAggregate(ctx, tour.ID, newRating, tour.Reviews); err != nil {
			return nil, apperrors.NewInternalError("failed to update tour aggregate", err)
		}
		review.Rating = *cmd.Rating
	}
	if cmd.Text != nil {
		review.Text = *cmd.Text
	}
	review.UpdatedAt = time.Now()

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, apperrors.NewInternalError("failed to update review", err)
	}
	return review, nil
}

// DeleteReview removes a review, folds its rating out of the tour's aggregate
// and drops it from the tour's review list. Only the author may delete.
func (s *ReviewService) DeleteReview(ctx context.Context, principal entities.Principal, reviewID, tourID string) error {
	unlock := s.locks.lock(tourID)
	defer unlock()

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review == nil {
		return apperrors.NewNotFoundError("no review found with id " + reviewID)
	}

	tour, err := s.tourRepo.GetByID(ctx, tourID)
	if err != nil {
		return err
	}
	if tour == nil {
		return apperrors.NewNotFoundError("no tour found with id " + tourID)
	}

	if review.UserID != principal.UserID {
		return apperrors.NewForbiddenError("review belongs to another user")
	}

	newRating := RatingAfterRemove(tour.Rating, len(tour.Reviews), review.Rating)
	reviews := RemoveID(tour.Reviews, reviewID)

	// Tour first: a crash after this leaves a review record no tour lists,
	// which the delete below would have removed anyway.
	if err := s.tourRepo.UpdateAggregate(ctx, tour.ID, newRating, reviews); err != nil {
		return apperrors.NewInternalError("failed to update tour aggregate", err)
	}
	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return apperrors.NewInternalError("failed to delete review", err)
	}
	return nil
}

// ListReviews returns all reviews ordered best-rated first.
func (s *ReviewService) ListReviews(ctx context.Context) ([]*entities.Review, error) {
	return s.reviewRepo.List(ctx, repositories.ReviewFilter{})
}

// ListReviewsForTour returns a tour's reviews ordered best-rated first,
// together with the tour's aggregate rating.
func (s *ReviewService) ListReviewsForTour(ctx context.Context, tourID string) ([]*entities.Review, float64, error) {
	tour, err := s.tourRepo.GetByID(ctx, tourID)
	if err != nil {
		return nil, 0, err
	}
	if tour == nil {
		return nil, 0, apperrors.NewNotFoundError("no tour found with id " + tourID)
	}
	reviews, err := s.reviewRepo.List(ctx, repositories.ReviewFilter{TourID: tourID})
	if err != nil {
		return nil, 0, err
	}
	return reviews, tour.Rating, nil
}

// GetReview fetches a single review.
func (s *ReviewService) GetReview(ctx context.Context, reviewID string) (*entities.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, apperrors.NewNotFoundError("no review found with id " + reviewID)
	}
	return review, nil
}
