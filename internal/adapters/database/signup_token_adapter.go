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

// SignupTokenAdapter implements the SignupTokenRepository interface.
type SignupTokenAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSignupTokenAdapter creates a new signup token adapter
func NewSignupTokenAdapter(client *postgres.Client) repositories.SignupTokenRepository {
	return &SignupTokenAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Upsert creates or replaces the token for an email. A re-request before
// verification invalidates the previous token.
func (a *SignupTokenAdapter) Upsert(ctx context.Context, token *entities.SignupToken) error {
	record := goqu.Record{
		"email":      token.Email,
		"token_hash": token.TokenHash,
		"verified":   token.Verified,
		"created_at": token.CreatedAt,
	}

	query, args, err := a.db.Insert("signup_tokens").
		Rows(record).
		OnConflict(goqu.DoUpdate("email", goqu.Record{
			"token_hash": token.TokenHash,
			"verified":   token.Verified,
			"created_at": token.CreatedAt,
		})).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build upsert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to upsert signup token", err)
	}

	return nil
}

// GetByEmail retrieves the token for an email
func (a *SignupTokenAdapter) GetByEmail(ctx context.Context, email string) (*entities.SignupToken, error) {
	query, args, err := a.db.Select("email", "token_hash", "verified", "created_at").
		From("signup_tokens").
		Where(goqu.Ex{"email": email}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	token := &entities.SignupToken{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&token.Email,
		&token.TokenHash,
		&token.Verified,
		&token.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get signup token", err)
	}

	return token, nil
}

// MarkVerified flags the email's token as verified
func (a *SignupTokenAdapter) MarkVerified(ctx context.Context, email string) error {
	query, args, err := a.db.Update("signup_tokens").
		Set(goqu.Record{"verified": true}).
		Where(goqu.Ex{"email": email}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to mark signup token verified", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("no signup token for %s", email))
	}

	return nil
}

// Delete removes the token for an email
func (a *SignupTokenAdapter) Delete(ctx context.Context, email string) error {
	query, args, err := a.db.Delete("signup_tokens").
		Where(goqu.Ex{"email": email}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete signup token", err)
	}

	return nil
}
