package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/wanderlyst/backend/internal/domain/entities"
	"github.com/wanderlyst/backend/internal/domain/repositories"
	"github.com/wanderlyst/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/wanderlyst/backend/pkg/errors"
)

// QueryAdapter implements the QueryRepository interface.
type QueryAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewQueryAdapter creates a new query adapter
func NewQueryAdapter(client *postgres.Client) repositories.QueryRepository {
	return &QueryAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var queryColumns = []interface{}{
	"id", "name", "email", "message", "replied", "created_at",
}

// Create creates a new query
func (a *QueryAdapter) Create(ctx context.Context, query *entities.Query) error {
	record := goqu.Record{
		"id":         query.ID,
		"name":       query.Name,
		"email":      query.Email,
		"message":    query.Message,
		"replied":    query.Replied,
		"created_at": query.CreatedAt,
	}

	sqlQuery, args, err := a.db.Insert("queries").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create query", err)
	}

	return nil
}

// GetByID retrieves a query by ID
func (a *QueryAdapter) GetByID(ctx context.Context, id string) (*entities.Query, error) {
	sqlQuery, args, err := a.db.Select(queryColumns...).
		From("queries").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	query := &entities.Query{}
	err = a.client.DB().QueryRowContext(ctx, sqlQuery, args...).Scan(
		&query.ID,
		&query.Name,
		&query.Email,
		&query.Message,
		&query.Replied,
		&query.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get query", err)
	}

	return query, nil
}

// List retrieves all queries, newest first
func (a *QueryAdapter) List(ctx context.Context) ([]*entities.Query, error) {
	sqlQuery, args, err := a.db.Select(queryColumns...).
		From("queries").
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list queries", err)
	}
	defer rows.Close()

	var queries []*entities.Query
	for rows.Next() {
		query := &entities.Query{}
		err := rows.Scan(
			&query.ID,
			&query.Name,
			&query.Email,
			&query.Message,
			&query.Replied,
			&query.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan query", err)
		}
		queries = append(queries, query)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate queries", err)
	}

	return queries, nil
}

// MarkReplied flags a query as answered
func (a *QueryAdapter) MarkReplied(ctx context.Context, id string) error {
	sqlQuery, args, err := a.db.Update("queries").
		Set(goqu.Record{"replied": true}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to mark query replied", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("query with id %s not found", id))
	}

	return nil
}
