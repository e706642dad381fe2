package database

import (
	"context"
	"database/sql"
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

// UserAdapter implements the UserRepository interface. The tours_booked
// back-reference list is stored as a text[] column.
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var userColumns = []interface{}{
	"id", "name", "email", "password", "address", "phone_number", "age",
	"salary", "image", "image_storage_id", "role", "tours_booked",
	"created_at", "updated_at",
}

// Create creates a new user
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	record := goqu.Record{
		"id":               user.ID,
		"name":             user.Name,
		"email":            user.Email,
		"password":         user.Password,
		"address":          user.Address,
		"phone_number":     user.PhoneNumber,
		"age":              user.Age,
		"salary":           user.Salary,
		"image":            user.Image,
		"image_storage_id": user.ImageStorageID,
		"role":             user.Role,
		"tours_booked":     pq.Array(user.ToursBooked),
		"created_at":       user.CreatedAt,
		"updated_at":       user.UpdatedAt,
	}

	query, args, err := a.db.Insert("users").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create user", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"id": id})
}

// GetByEmail retrieves a user by email
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"email": email})
}

func (a *UserAdapter) getOne(ctx context.Context, where goqu.Ex) (*entities.User, error) {
	query, args, err := a.db.Select(userColumns...).
		From("users").
		Where(where).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user := &entities.User{}
	var salary sql.NullFloat64
	var toursBooked pq.StringArray

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Address,
		&user.PhoneNumber,
		&user.Age,
		&salary,
		&user.Image,
		&user.ImageStorageID,
		&user.Role,
		&toursBooked,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	if salary.Valid {
		user.Salary = &salary.Float64
	}
	user.ToursBooked = toursBooked

	return user, nil
}

// Update updates a user's profile fields
func (a *UserAdapter) Update(ctx context.Context, user *entities.User) error {
	user.UpdatedAt = time.Now()

	record := goqu.Record{
		"name":             user.Name,
		"email":            user.Email,
		"password":         user.Password,
		"address":          user.Address,
		"phone_number":     user.PhoneNumber,
		"age":              user.Age,
		"salary":           user.Salary,
		"image":            user.Image,
		"image_storage_id": user.ImageStorageID,
		"role":             user.Role,
		"updated_at":       user.UpdatedAt,
	}

	query, args, err := a.db.Update("users").
		Set(record).
		Where(goqu.Ex{"id": user.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update user", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", user.ID))
	}

	return nil
}

// UpdateToursBooked replaces the user's booking back-reference list
func (a *UserAdapter) UpdateToursBooked(ctx context.Context, userID string, toursBooked []string) error {
	query, args, err := a.db.Update("users").
		Set(goqu.Record{
			"tours_booked": pq.Array(toursBooked),
			"updated_at":   time.Now(),
		}).
		Where(goqu.Ex{"id": userID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update tours booked", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", userID))
	}

	return nil
}

// Delete removes a user
func (a *UserAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("users").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete user", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}

	return nil
}
