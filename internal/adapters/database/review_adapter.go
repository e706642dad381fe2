package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/wanderlyst/backend/internal/domain/entities"
	"github.com/wanderlyst/backend/internal/domain/repositories"
	"github.com/wanderlyst/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/wanderlyst/backend/pkg/errors"
)

// ReviewAdapter implements the ReviewRepository interface.
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var reviewColumns = []interface{}{
	"id", "user_id", "tour_id", "review_text", "rating",
	"created_at", "updated_at",
}

// Create creates a new review
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	record := goqu.Record{
		"id":          review.ID,
		"user_id":     review.UserID,
		"tour_id":     review.TourID,
		"review_text": review.Text,
		"rating":      review.Rating,
		"created_at":  review.CreatedAt,
		"updated_at":  review.UpdatedAt,
	}

	query, args, err := a.db.Insert("reviews").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create review", err)
	}

	return nil
}

// GetByID retrieves a review by ID
func (a *ReviewAdapter) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	query, args, err := a.db.Select(reviewColumns...).
		From("reviews").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	review := &entities.Review{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&review.ID,
		&review.UserID,
		&review.TourID,
		&review.Text,
		&review.Rating,
		&review.CreatedAt,
		&review.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get review", err)
	}

	return review, nil
}

// reviewListQuery builds the listing select. Best-rated reviews come first;
// equal ratings keep their creation order.
func reviewListQuery(db *goqu.Database, filter repositories.ReviewFilter) (string, []interface{}, error) {
	ds := db.Select(reviewColumns...).From("reviews")

	if filter.TourID != "" {
		ds = ds.Where(goqu.Ex{"tour_id": filter.TourID})
	}
	if filter.UserID != "" {
		ds = ds.Where(goqu.Ex{"user_id": filter.UserID})
	}

	return ds.Order(goqu.I("rating").Desc(), goqu.I("created_at").Asc()).ToSQL()
}

// List retrieves reviews matching the filter, ordered by rating descending
// with creation order as the tie-break
func (a *ReviewAdapter) List(ctx context.Context, filter repositories.ReviewFilter) ([]*entities.Review, error) {
	query, args, err := reviewListQuery(a.db, filter)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	defer rows.Close()

	var reviews []*entities.Review
	for rows.Next() {
		review := &entities.Review{}
		err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.TourID,
			&review.Text,
			&review.Rating,
			&review.CreatedAt,
			&review.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate reviews", err)
	}

	return reviews, nil
}

// Update updates a review's text and rating
func (a *ReviewAdapter) Update(ctx context.Context, review *entities.Review) error {
	review.UpdatedAt = time.Now()

	query, args, err := a.db.Update("reviews").
		Set(goqu.Record{
			"review_text": review.Text,
			"rating":      review.Rating,
			"updated_at":  review.UpdatedAt,
		}).
		Where(goqu.Ex{"id": review.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update review", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("review with id %s not found", review.ID))
	}

	return nil
}

// Delete removes a review
func (a *ReviewAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("reviews").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete review", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("review with id %s not found", id))
	}

	return nil
}
