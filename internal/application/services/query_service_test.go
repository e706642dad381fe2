package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/wanderlyst/backend/internal/application/services"
	"github.com/wanderlyst/backend/internal/domain/entities"
	apperrors "github.com/wanderlyst/backend/pkg/errors"
)

func newQueryService() (*services.QueryService, *MockQueryRepository, *MockMailer) {
	queryRepo := new(MockQueryRepository)
	mailer := new(MockMailer)
	return services.NewQueryService(queryRepo, mailer), queryRepo, mailer
}

func TestPostQuery_Success(t *testing.T) {
	svc, queryRepo, _ := newQueryService()
	ctx := context.Background()

	queryRepo.On("Create", ctx, mock.MatchedBy(func(query *entities.Query) bool {
		return query.Email == "sam@example.com" && !query.Replied
	})).Return(nil)

	query, err := svc.PostQuery(ctx, services.PostQueryCommand{
		Name:    "Sam Oduya",
		Email:   "Sam@Example.com",
		Message: "Do you run the Forest Hiker in winter?",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, query.ID)
	queryRepo.AssertExpectations(t)
}

func TestPostQuery_EmptyMessage(t *testing.T) {
	svc, queryRepo, _ := newQueryService()

	_, err := svc.PostQuery(context.Background(), services.PostQueryCommand{
		Name:  "Sam Oduya",
		Email: "sam@example.com",
	})

	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	queryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReplyQuery_MailsThenMarksReplied(t *testing.T) {
	svc, queryRepo, mailer := newQueryService()
	ctx := context.Background()

	queryRepo.On("GetByID", ctx, "query-1").Return(&entities.Query{
		ID:    "query-1",
		Email: "sam@example.com",
	}, nil)
	mailer.On("Send", ctx, "sam@example.com", mock.AnythingOfType("string"), "Yes, from December through February.").Return(nil)
	queryRepo.On("MarkReplied", ctx, "query-1").Return(nil)

	err := svc.ReplyQuery(ctx, "query-1", "Yes, from December through February.")

	assert.NoError(t, err)
	mailer.AssertExpectations(t)
	queryRepo.AssertExpectations(t)
}

func TestReplyQuery_AlreadyAnswered(t *testing.T) {
	svc, queryRepo, mailer := newQueryService()
	ctx := context.Background()

	queryRepo.On("GetByID", ctx, "query-1").Return(&entities.Query{
		ID:      "query-1",
		Email:   "sam@example.com",
		Replied: true,
	}, nil)

	err := svc.ReplyQuery(ctx, "query-1", "Another answer")

	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReplyQuery_NotFound(t *testing.T) {
	svc, queryRepo, _ := newQueryService()
	ctx := context.Background()

	queryRepo.On("GetByID", ctx, "missing").Return(nil, nil)

	err := svc.ReplyQuery(ctx, "missing", "An answer")

	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
