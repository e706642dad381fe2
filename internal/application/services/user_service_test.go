package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/wanderlyst/backend/internal/application/services"
	"github.com/wanderlyst/backend/internal/domain/entities"
	apperrors "github.com/wanderlyst/backend/pkg/errors"
)

type userServiceMocks struct {
	userRepo  *MockUserRepository
	tokenRepo *MockSignupTokenRepository
	hasher    *MockPasswordHasher
	tokens    *MockTokenProvider
	mailer    *MockMailer
	images    *MockImageStore
}

func newUserService() (*services.UserService, userServiceMocks) {
	m := userServiceMocks{
		userRepo:  new(MockUserRepository),
		tokenRepo: new(MockSignupTokenRepository),
		hasher:    new(MockPasswordHasher),
		tokens:    new(MockTokenProvider),
		mailer:    new(MockMailer),
		images:    new(MockImageStore),
	}
	svc := services.NewUserService(m.userRepo, m.tokenRepo, m.hasher, m.tokens, m.mailer, m.images)
	return svc, m
}

func TestRequestSignupToken_StoresHashAndMailsPlaintext(t *testing.T) {
	svc, m := newUserService()
	ctx := context.Background()

	m.userRepo.On("GetByEmail", ctx, "lena@example.com").Return(nil, nil)
	m.hasher.On("Hash", mock.AnythingOfType("string")).Return("hashed-token", nil)
	m.tokenRepo.On("Upsert", ctx, mock.MatchedBy(func(token *entities.SignupToken) bool {
		return token.Email == "lena@example.com" && token.TokenHash == "hashed-token" && !token.Verified
	})).Return(nil)
	m.mailer.On("Send", ctx, "lena@example.com", mock.AnythingOfType("string"), mock.MatchedBy(func(body string) bool {
		return !strings.Contains(body, "hashed-token")
	})).Return(nil)

	err := svc.RequestSignupToken(ctx, "  Lena@Example.com ")

	assert.NoError(t, err)
	m.tokenRepo.AssertExpectations(t)
	m.mailer.AssertExpectations(t)
}

func TestRequestSignupToken_ExistingAccount(t *testing.T) {
	svc, m := newUserService()
	ctx := context.Background()

	m.userRepo.On("GetByEmail", ctx, "lena@example.com").Return(&entities.User{ID: "user-1"}, nil)

	err := svc.RequestSignupToken(ctx, "lena@example.com")

	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	m.tokenRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestVerifySignupToken_Success(t *testing.T) {
	svc, m := newUserService()
	ctx := context.Background()

	m.tokenRepo.On("GetByEmail", ctx, "lena@example.com").Return(&entities.SignupToken{
		Email: "lena@example.com", TokenHash: "hashed-token",
	}, nil)
	m.hasher.On("Compare", "hashed-token", "plain-token").Return(true)
	m.tokenRepo.On("MarkVerified", ctx, "lena@example.com").Return(nil)

	err := svc.VerifySignupToken(ctx, "lena@example.com", "plain-token")

	assert.NoError(t, err)
	m.tokenRepo.AssertExpectations(t)
}

func TestVerifySignupToken_WrongToken(t *testing.T) {
	svc, m := newUserService()
	ctx := context.Background()

	m.tokenRepo.On("GetByEmail", ctx, "lena@example.com").Return(&entities.SignupToken{
		Email: "lena@example.com", TokenHash: "hashed-token",
	}, nil)
	m.hasher.On("Compare", "hashed-token", "guess").Return(false)

	err := svc.VerifySignupToken(ctx, "lena@example.com", "guess")

	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	m.tokenRepo.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
}

func TestSignup_Success(t *testing.T) {
	svc, m := newUserService()
	ctx := context.Background()

	m.tokenRepo.On("GetByEmail", ctx, "lena@example.com").Return(&entities.SignupToken{
		Email: "lena@example.com", Verified: true,
	}, nil)
	m.userRepo.On("GetByEmail", ctx, "lena@example.com").Return(nil, nil)
	m.hasher.On("Hash", "s3cret-pass").Return("hashed-pass", nil)
	m.userRepo.On("Create", ctx, mock.MatchedBy(func(user *entities.User) bool {
		return user.Email == "lena@example.com" &&
			user.Password == "hashed-pass" &&
			user.Role == entities.RoleCustomer
	})).Return(nil)
	m.tokenRepo.On("Delete", ctx, "lena@example.com").Return(nil)
	m.tokens.On("Issue", mock.MatchedBy(func(p entities.Principal) bool {
		return p.Role == entities.RoleCustomer
	})).Return("jwt-token", nil)

	user, session, err := svc.Signup(ctx, services.SignupCommand{
		Name:     "Lena Mayer",
		Email:    "Lena@Example.com",
		Password: "s3cret-pass",
	})

	assert.NoError(t, err)
	assert.Equal(t, "jwt-token", session)
	assert.Equal(t, entities.RoleCustomer, user.Role)
	m.userRepo.AssertExpectations(t)
	m.tokenRepo.AssertExpectations(t)
}

func TestSignup_UnverifiedEmail(t *testing.T) {
	svc, m := newUserService()
	ctx := context.Background()

	m.tokenRepo.On("GetByEmail", ctx, "lena@example.com").Return(&entities.SignupToken{
		Email: "lena@example.com", Verified: false,
	}, nil)

	_, _, err := svc.Signup(ctx, services.SignupCommand{
		Name:     "Lena Mayer",
		Email:    "lena@example.com",
		Password: "s3cret-pass",
	})

	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
	m.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignup_ShortPassword(t *testing.T) {
	svc, m := newUserService()

	_, _, err := svc.Signup(context.Background(), services.SignupCommand{
		Name:     "Lena Mayer",
		Email:    "lena@example.com",
		Password: "short",
	})

	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	m.tokenRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	svc, m := newUserService()
	ctx := context.Background()

	m.userRepo.On("GetByEmail", ctx, "lena@example.com").Return(&entities.User{
		ID:       "user-1",
		Password: "hashed-pass",
		Role:     entities.RoleGuide,
	}, nil)
	m.hasher.On("Compare", "hashed-pass", "s3cret-pass").Return(true)
	m.tokens.On("Issue", entities.Principal{UserID: "user-1", Role: entities.RoleGuide}).Return("jwt-token", nil)

	user, session, err := svc.Login(ctx, "lena@example.com", "s3cret-pass")

	assert.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "jwt-token", session)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, m := newUserService()
	ctx := context.Background()

	m.userRepo.On("GetByEmail", ctx, "lena@example.com").Return(&entities.User{
		ID:       "user-1",
		Password: "hashed-pass",
	}, nil)
	m.hasher.On("Compare", "hashed-pass", "wrong").Return(false)

	_, _, err := svc.Login(ctx, "lena@example.com", "wrong")

	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	m.tokens.AssertNotCalled(t, "Issue", mock.Anything)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, m := newUserService()
	ctx := context.Background()

	m.userRepo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, nil)

	_, _, err := svc.Login(ctx, "ghost@example.com", "whatever")

	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	m.tokens.AssertNotCalled(t, "Issue", mock.Anything)
}

func TestUpdateMe_ReplacesAvatar(t *testing.T) {
	svc, m := newUserService()
	ctx := context.Background()

	m.userRepo.On("GetByID", ctx, "user-1").Return(&entities.User{
		ID:             "user-1",
		Name:           "Lena Mayer",
		Image:          "/img/users/old.jpg",
		ImageStorageID: "old-store",
	}, nil)
	m.images.On("Upload", ctx, "new.jpg", mock.Anything).Return(entities.TourImage{
		Link:      "/img/users/new.jpg",
		StorageID: "new-store",
	}, nil)
	m.images.On("Delete", ctx, "old-store").Return(nil)
	m.userRepo.On("Update", ctx, mock.MatchedBy(func(user *entities.User) bool {
		return user.Image == "/img/users/new.jpg" && user.ImageStorageID == "new-store"
	})).Return(nil)

	user, err := svc.UpdateMe(ctx, entities.Principal{UserID: "user-1"}, services.UpdateMeCommand{
		Avatar: &services.ImageUpload{Name: "new.jpg", Content: strings.NewReader("jpeg bytes")},
	})

	assert.NoError(t, err)
	assert.Equal(t, "new-store", user.ImageStorageID)
	m.images.AssertExpectations(t)
	m.userRepo.AssertExpectations(t)
}

func TestUpdateMe_ProfileFieldsOnly(t *testing.T) {
	svc, m := newUserService()
	ctx := context.Background()

	m.userRepo.On("GetByID", ctx, "user-1").Return(&entities.User{ID: "user-1", Name: "Lena Mayer"}, nil)
	m.userRepo.On("Update", ctx, mock.MatchedBy(func(user *entities.User) bool {
		return user.Name == "Lena M. Mayer" && user.PhoneNumber == "9876543210"
	})).Return(nil)

	name := "Lena M. Mayer"
	phone := "9876543210"
	_, err := svc.UpdateMe(ctx, entities.Principal{UserID: "user-1"}, services.UpdateMeCommand{
		Name:        &name,
		PhoneNumber: &phone,
	})

	assert.NoError(t, err)
	m.images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteUser_RemovesAvatarImage(t *testing.T) {
	svc, m := newUserService()
	ctx := context.Background()

	m.userRepo.On("GetByID", ctx, "user-1").Return(&entities.User{
		ID:             "user-1",
		ImageStorageID: "store-1",
	}, nil)
	m.images.On("Delete", ctx, "store-1").Return(nil)
	m.userRepo.On("Delete", ctx, "user-1").Return(nil)

	err := svc.DeleteUser(ctx, "user-1")

	assert.NoError(t, err)
	m.images.AssertExpectations(t)
	m.userRepo.AssertExpectations(t)
}

func TestDeleteUser_NotFound(t *testing.T) {
	svc, m := newUserService()
	ctx := context.Background()

	m.userRepo.On("GetByID", ctx, "ghost").Return(nil, nil)

	err := svc.DeleteUser(ctx, "ghost")

	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	m.userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
