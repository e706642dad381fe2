package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/wanderlyst/backend/internal/domain/entities"
	"github.com/wanderlyst/backend/internal/domain/repositories"
	"github.com/wanderlyst/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/wanderlyst/backend/pkg/errors"
)

// TourAdapter implements the TourRepository interface. Images, locations and
// dates are JSONB documents; the guide and review back-reference lists are
// text[] columns so membership updates stay cheap.
type TourAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewTourAdapter creates a new tour adapter
func NewTourAdapter(client *postgres.Client) repositories.TourRepository {
	return &TourAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var tourColumns = []interface{}{
	"id", "name", "description", "difficulty", "duration", "capacity",
	"price", "rating", "images", "locations", "dates", "guides", "reviews",
	"created_at", "updated_at",
}

// Create creates a new tour
func (a *TourAdapter) Create(ctx context.Context, tour *entities.Tour) error {
	images, locations, dates, err := marshalTourDocuments(tour)
	if err != nil {
		return err
	}

	record := goqu.Record{
		"id":          tour.ID,
		"name":        tour.Name,
		"description": tour.Description,
		"difficulty":  tour.Difficulty,
		"duration":    tour.Duration,
		"capacity":    tour.Capacity,
		"price":       tour.Price,
		"rating":      tour.Rating,
		"images":      images,
		"locations":   locations,
		"dates":       dates,
		"guides":      pq.Array(tour.Guides),
		"reviews":     pq.Array(tour.Reviews),
		"created_at":  tour.CreatedAt,
		"updated_at":  tour.UpdatedAt,
	}

	query, args, err := a.db.Insert("tours").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create tour", err)
	}

	return nil
}

// GetByID retrieves a tour by ID
func (a *TourAdapter) GetByID(ctx context.Context, id string) (*entities.Tour, error) {
	query, args, err := a.db.Select(tourColumns...).
		From("tours").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	tour, err := scanTour(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tour, nil
}

// List retrieves all tours
func (a *TourAdapter) List(ctx context.Context) ([]*entities.Tour, error) {
	query, args, err := a.db.Select(tourColumns...).
		From("tours").
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list tours", err)
	}
	defer rows.Close()

	var tours []*entities.Tour
	for rows.Next() {
		tour, err := scanTour(rows)
		if err != nil {
			return nil, err
		}
		tours = append(tours, tour)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate tours", err)
	}

	return tours, nil
}

// Update updates a tour's descriptive fields and images
func (a *TourAdapter) Update(ctx context.Context, tour *entities.Tour) error {
	tour.UpdatedAt = time.Now()

	images, locations, dates, err := marshalTourDocuments(tour)
	if err != nil {
		return err
	}

	record := goqu.Record{
		"name":        tour.Name,
		"description": tour.Description,
		"difficulty":  tour.Difficulty,
		"duration":    tour.Duration,
		"capacity":    tour.Capacity,
		"price":       tour.Price,
		"images":      images,
		"locations":   locations,
		"dates":       dates,
		"updated_at":  tour.UpdatedAt,
	}

	query, args, err := a.db.Update("tours").
		Set(record).
		Where(goqu.Ex{"id": tour.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update tour", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("tour with id %s not found", tour.ID))
	}

	return nil
}

// UpdateAggregate writes the derived rating and the review id list as one
// record update
func (a *TourAdapter) UpdateAggregate(ctx context.Context, tourID string, rating float64, reviews []string) error {
	query, args, err := a.db.Update("tours").
		Set(goqu.Record{
			"rating":     rating,
			"reviews":    pq.Array(reviews),
			"updated_at": time.Now(),
		}).
		Where(goqu.Ex{"id": tourID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update tour aggregate", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("tour with id %s not found", tourID))
	}

	return nil
}

// UpdateGuides replaces the tour's guide membership list
func (a *TourAdapter) UpdateGuides(ctx context.Context, tourID string, guides []string) error {
	query, args, err := a.db.Update("tours").
		Set(goqu.Record{
			"guides":     pq.Array(guides),
			"updated_at": time.Now(),
		}).
		Where(goqu.Ex{"id": tourID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update tour guides", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("tour with id %s not found", tourID))
	}

	return nil
}

// Delete removes a tour
func (a *TourAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("tours").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete tour", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("tour with id %s not found", id))
	}

	return nil
}

func marshalTourDocuments(tour *entities.Tour) (images, locations, dates []byte, err error) {
	images, err = json.Marshal(tour.Images)
	if err != nil {
		return nil, nil, nil, apperrors.NewInternalError("failed to marshal tour images", err)
	}
	locations, err = json.Marshal(tour.Locations)
	if err != nil {
		return nil, nil, nil, apperrors.NewInternalError("failed to marshal tour locations", err)
	}
	dates, err = json.Marshal(tour.Dates)
	if err != nil {
		return nil, nil, nil, apperrors.NewInternalError("failed to marshal tour dates", err)
	}
	return images, locations, dates, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTour(row rowScanner) (*entities.Tour, error) {
	tour := &entities.Tour{}
	var images, locations, dates []byte
	var guides, reviews pq.StringArray

	err := row.Scan(
		&tour.ID,
		&tour.Name,
		&tour.Description,
		&tour.Difficulty,
		&tour.Duration,
		&tour.Capacity,
		&tour.Price,
		&tour.Rating,
		&images,
		&locations,
		&dates,
		&guides,
		&reviews,
		&tour.CreatedAt,
		&tour.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to scan tour", err)
	}

	if err := json.Unmarshal(images, &tour.Images); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal tour images", err)
	}
	if err := json.Unmarshal(locations, &tour.Locations); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal tour locations", err)
	}
	if err := json.Unmarshal(dates, &tour.Dates); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal tour dates", err)
	}
	tour.Guides = guides
	tour.Reviews = reviews

	return tour, nil
}
