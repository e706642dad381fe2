package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wanderlyst/backend/internal/domain/entities"
	"github.com/wanderlyst/backend/internal/domain/providers"
	"github.com/wanderlyst/backend/internal/domain/repositories"
	apperrors "github.com/wanderlyst/backend/pkg/errors"
)

// QueryService handles the public contact form and staff replies.
type QueryService struct {
	queryRepo repositories.QueryRepository
	mailer    providers.Mailer
}

// NewQueryService creates a new query service
func NewQueryService(queryRepo repositories.QueryRepository, mailer providers.Mailer) *QueryService {
	return &QueryService{queryRepo: queryRepo, mailer: mailer}
}

// PostQueryCommand is the validated input for PostQuery.
type PostQueryCommand struct {
	Name    string
	Email   string
	Message string
}

// PostQuery records an unauthenticated contact form submission.
func (s *QueryService) PostQuery(ctx context.Context, cmd PostQueryCommand) (*entities.Query, error) {
	if strings.TrimSpace(cmd.Name) == "" || strings.TrimSpace(cmd.Email) == "" {
		return nil, apperrors.NewValidationError("name and email must not be empty")
	}
	if strings.TrimSpace(cmd.Message) == "" {
		return nil, apperrors.NewValidationError("query message must not be empty")
	}

	query := &entities.Query{
		ID:        uuid.New().String(),
		Name:      cmd.Name,
		Email:     strings.ToLower(strings.TrimSpace(cmd.Email)),
		Message:   cmd.Message,
		Replied:   false,
		CreatedAt: time.Now(),
	}
	if err := s.queryRepo.Create(ctx, query); err != nil {
		return nil, apperrors.NewInternalError("failed to create query", err)
	}
	return query, nil
}

// GetAllQueries returns every submitted query.
func (s *QueryService) GetAllQueries(ctx context.Context) ([]*entities.Query, error) {
	return s.queryRepo.List(ctx)
}

// ReplyQuery mails a reply to the query's sender and marks the query replied.
// An already answered query cannot be replied to again.
func (s *QueryService) ReplyQuery(ctx context.Context, queryID, reply string) error {
	if strings.TrimSpace(reply) == "" {
		return apperrors.NewValidationError("reply must not be empty")
	}

	query, err := s.queryRepo.GetByID(ctx, queryID)
	if err != nil {
		return err
	}
	if query == nil {
		return apperrors.NewNotFoundError("no query found with id " + queryID)
	}
	if query.Replied {
		return apperrors.NewConflictError("query has already been answered")
	}

	if err := s.mailer.Send(ctx, query.Email, "Re: your WanderLyst query", reply); err != nil {
		return apperrors.NewInternalError("failed to send reply mail", err)
	}
	if err := s.queryRepo.MarkReplied(ctx, queryID); err != nil {
		return apperrors.NewInternalError("failed to mark query replied", err)
	}
	return nil
}
