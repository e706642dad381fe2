package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/wanderlyst/backend/internal/domain/entities"
	"github.com/wanderlyst/backend/internal/domain/repositories"
	"github.com/wanderlyst/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/wanderlyst/backend/pkg/errors"
)

// BookingAdapter implements the BookingRepository interface. The participant
// list is a JSONB document; participants are never queried independently of
// their booking.
type BookingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewBookingAdapter creates a new booking adapter
func NewBookingAdapter(client *postgres.Client) repositories.BookingRepository {
	return &BookingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var bookingColumns = []interface{}{
	"id", "user_id", "tour_id", "participants", "booking_date",
	"tour_completed", "created_at",
}

// Create creates a new booking
func (a *BookingAdapter) Create(ctx context.Context, booking *entities.Booking) error {
	participants, err := json.Marshal(booking.Participants)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal participants", err)
	}

	record := goqu.Record{
		"id":             booking.ID,
		"user_id":        booking.UserID,
		"tour_id":        booking.TourID,
		"participants":   participants,
		"booking_date":   booking.BookingDate,
		"tour_completed": booking.TourCompleted,
		"created_at":     booking.CreatedAt,
	}

	query, args, err := a.db.Insert("bookings").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create booking", err)
	}

	return nil
}

// GetByID retrieves a booking by ID
func (a *BookingAdapter) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	query, args, err := a.db.Select(bookingColumns...).
		From("bookings").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	booking, err := scanBooking(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// List retrieves bookings matching the filter, oldest first
func (a *BookingAdapter) List(ctx context.Context, filter repositories.BookingFilter) ([]*entities.Booking, error) {
	ds := a.db.Select(bookingColumns...).From("bookings")

	if filter.UserID != "" {
		ds = ds.Where(goqu.Ex{"user_id": filter.UserID})
	}
	if filter.TourID != "" {
		ds = ds.Where(goqu.Ex{"tour_id": filter.TourID})
	}

	query, args, err := ds.Order(goqu.I("created_at").Asc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list bookings", err)
	}
	defer rows.Close()

	var bookings []*entities.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate bookings", err)
	}

	return bookings, nil
}

// MarkCompleted sets tour_completed. The write is idempotent and one-way.
func (a *BookingAdapter) MarkCompleted(ctx context.Context, id string) error {
	query, args, err := a.db.Update("bookings").
		Set(goqu.Record{"tour_completed": true}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to mark booking completed", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("booking with id %s not found", id))
	}

	return nil
}

// Delete removes a booking
func (a *BookingAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("bookings").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete booking", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("booking with id %s not found", id))
	}

	return nil
}

func scanBooking(row rowScanner) (*entities.Booking, error) {
	booking := &entities.Booking{}
	var participants []byte

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.TourID,
		&participants,
		&booking.BookingDate,
		&booking.TourCompleted,
		&booking.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to scan booking", err)
	}

	if err := json.Unmarshal(participants, &booking.Participants); err != nil {
		return nil, apperrors.NewInternalError("failed to unmarshal participants", err)
	}

	return booking, nil
}
