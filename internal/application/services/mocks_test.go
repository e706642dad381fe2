package services_test

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
	"github.com/wanderlyst/backend/internal/domain/entities"
	"github.com/wanderlyst/backend/internal/domain/repositories"
)

// Mocks

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *entities.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, filter repositories.BookingFilter) ([]*entities.Booking, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Booking), args.Error(1)
}

func (m *MockBookingRepository) MarkCompleted(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTourRepository struct {
	mock.Mock
}

func (m *MockTourRepository) Create(ctx context.Context, tour *entities.Tour) error {
	args := m.Called(ctx, tour)
	return args.Error(0)
}

func (m *MockTourRepository) GetByID(ctx context.Context, id string) (*entities.Tour, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Tour), args.Error(1)
}

func (m *MockTourRepository) List(ctx context.Context) ([]*entities.Tour, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Tour), args.Error(1)
}

func (m *MockTourRepository) Update(ctx context.Context, tour *entities.Tour) error {
	args := m.Called(ctx, tour)
	return args.Error(0)
}

func (m *MockTourRepository) UpdateAggregate(ctx context.Context, tourID string, rating float64, reviews []string) error {
	args := m.Called(ctx, tourID, rating, reviews)
	return args.Error(0)
}

func (m *MockTourRepository) UpdateGuides(ctx context.Context, tourID string, guides []string) error {
	args := m.Called(ctx, tourID, guides)
	return args.Error(0)
}

func (m *MockTourRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateToursBooked(ctx context.Context, userID string, toursBooked []string) error {
	args := m.Called(ctx, userID, toursBooked)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *entities.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *MockReviewRepository) List(ctx context.Context, filter repositories.ReviewFilter) ([]*entities.Review, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Review), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *entities.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSignupTokenRepository struct {
	mock.Mock
}

func (m *MockSignupTokenRepository) Upsert(ctx context.Context, token *entities.SignupToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockSignupTokenRepository) GetByEmail(ctx context.Context, email string) (*entities.SignupToken, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SignupToken), args.Error(1)
}

func (m *MockSignupTokenRepository) MarkVerified(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockSignupTokenRepository) Delete(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type MockQueryRepository struct {
	mock.Mock
}

func (m *MockQueryRepository) Create(ctx context.Context, query *entities.Query) error {
	args := m.Called(ctx, query)
	return args.Error(0)
}

func (m *MockQueryRepository) GetByID(ctx context.Context, id string) (*entities.Query, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Query), args.Error(1)
}

func (m *MockQueryRepository) List(ctx context.Context) ([]*entities.Query, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Query), args.Error(1)
}

func (m *MockQueryRepository) MarkReplied(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Upload(ctx context.Context, name string, content io.Reader) (entities.TourImage, error) {
	args := m.Called(ctx, name, content)
	return args.Get(0).(entities.TourImage), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, storageID string) error {
	args := m.Called(ctx, storageID)
	return args.Error(0)
}

func (m *MockImageStore) DefaultTourImage() entities.TourImage {
	args := m.Called()
	return args.Get(0).(entities.TourImage)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hashed, plain string) bool {
	args := m.Called(hashed, plain)
	return args.Bool(0)
}

type MockTokenProvider struct {
	mock.Mock
}

func (m *MockTokenProvider) Issue(principal entities.Principal) (string, error) {
	args := m.Called(principal)
	return args.String(0), args.Error(1)
}

func (m *MockTokenProvider) Verify(token string) (entities.Principal, error) {
	args := m.Called(token)
	return args.Get(0).(entities.Principal), args.Error(1)
}
