package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wanderlyst/backend/internal/domain/entities"
	"github.com/wanderlyst/backend/internal/domain/providers"
	"github.com/wanderlyst/backend/internal/domain/repositories"
	apperrors "github.com/wanderlyst/backend/pkg/errors"
)

// UserService handles the two-step registration flow, authentication and
// profile management. Signup tokens and passwords are stored hashed; the
// plaintext token only ever travels in the signup mail.
type UserService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.SignupTokenRepository
	hasher    providers.PasswordHasher
	tokens    providers.TokenProvider
	mailer    providers.Mailer
	images    providers.ImageStore
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.SignupTokenRepository,
	hasher providers.PasswordHasher,
	tokens providers.TokenProvider,
	mailer providers.Mailer,
	images providers.ImageStore,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		hasher:    hasher,
		tokens:    tokens,
		mailer:    mailer,
		images:    images,
	}
}

// RequestSignupToken starts registration: a fresh random token is hashed,
// stored against the email and mailed to the address. Requesting again before
// verifying replaces the previous token.
func (s *UserService) RequestSignupToken(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperrors.NewValidationError("email must not be empty")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperrors.NewConflictError("an account with this email already exists")
	}

	plain, err := generateSignupToken()
	if err != nil {
		return apperrors.NewInternalError("failed to generate signup token", err)
	}
	hashed, err := s.hasher.Hash(plain)
	if err != nil {
		return apperrors.NewInternalError("failed to hash signup token", err)
	}

	token := &entities.SignupToken{
		Email:     email,
		TokenHash: hashed,
		Verified:  false,
		CreatedAt: time.Now(),
	}
	if err := s.tokenRepo.Upsert(ctx, token); err != nil {
		return apperrors.NewInternalError("failed to store signup token", err)
	}

	body := "Your signup confirmation token is " + plain +
		". Enter it to verify your email address and complete registration."
	if err := s.mailer.Send(ctx, email, "Confirm your email address", body); err != nil {
		return apperrors.NewInternalError("failed to send signup mail", err)
	}
	return nil
}

// VerifySignupToken marks the email verified when the presented token matches
// the stored hash.
func (s *UserService) VerifySignupToken(ctx context.Context, email, token string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	record, err := s.tokenRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if record == nil {
		return apperrors.NewNotFoundError("no signup request found for " + email)
	}
	if !s.hasher.Compare(record.TokenHash, token) {
		return apperrors.NewUnauthorizedError("signup token does not match")
	}
	if err := s.tokenRepo.MarkVerified(ctx, email); err != nil {
		return apperrors.NewInternalError("failed to mark signup token verified", err)
	}
	return nil
}

// SignupCommand is the validated input for Signup.
type SignupCommand struct {
	Name        string
	Email       string
	Password    string
	Address     string
	PhoneNumber string
	Age         int
}

// Signup completes registration for a verified email. The signup token is
// consumed, the password stored hashed and a session token issued.
func (s *UserService) Signup(ctx context.Context, cmd SignupCommand) (*entities.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if cmd.Name == "" || email == "" {
		return nil, "", apperrors.NewValidationError("name and email must not be empty")
	}
	if len(cmd.Password) < 8 {
		return nil, "", apperrors.NewValidationError("password must be at least 8 characters")
	}

	record, err := s.tokenRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if record == nil || !record.Verified {
		return nil, "", apperrors.NewForbiddenError("email address has not been verified")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", apperrors.NewConflictError("an account with this email already exists")
	}

	hashed, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, "", apperrors.NewInternalError("failed to hash password", err)
	}

	user := &entities.User{
		ID:          uuid.New().String(),
		Name:        cmd.Name,
		Email:       email,
		Password:    hashed,
		Address:     cmd.Address,
		PhoneNumber: cmd.PhoneNumber,
		Age:         cmd.Age,
		Role:        entities.RoleCustomer,
		ToursBooked: []string{},
		CreatedAt:   time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", apperrors.NewInternalError("failed to create user", err)
	}
	if err := s.tokenRepo.Delete(ctx, email); err != nil {
		log.Warn().Err(err).Str("email", email).Msg("failed to delete consumed signup token")
	}

	session, err := s.tokens.Issue(entities.Principal{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, "", apperrors.NewInternalError("failed to issue session token", err)
	}
	return user, session, nil
}

// Login authenticates by email and password and issues a session token.
func (s *UserService) Login(ctx context.Context, email, password string) (*entities.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", apperrors.NewValidationError("email and password must not be empty")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	// A missing account and a wrong password are indistinguishable to the
	// caller.
	if user == nil || !s.hasher.Compare(user.Password, password) {
		return nil, "", apperrors.NewUnauthorizedError("incorrect email or password")
	}

	session, err := s.tokens.Issue(entities.Principal{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, "", apperrors.NewInternalError("failed to issue session token", err)
	}
	return user, session, nil
}

// GetMe fetches the principal's own profile.
func (s *UserService) GetMe(ctx context.Context, principal entities.Principal) (*entities.User, error) {
	return s.GetUser(ctx, principal.UserID)
}

// GetUser fetches a single user.
func (s *UserService) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError("no user found with id " + userID)
	}
	return user, nil
}

// UpdateMeCommand is the validated input for UpdateMe. Nil fields are left
// unchanged; a non-nil Avatar replaces the stored avatar image.
type UpdateMeCommand struct {
	Name        *string
	PhoneNumber *string
	Address     *string
	Age         *int
	Avatar      *ImageUpload
}

// UpdateMe updates the principal's profile. Replacing the avatar deletes the
// previous stored image.
func (s *UserService) UpdateMe(ctx context.Context, principal entities.Principal, cmd UpdateMeCommand) (*entities.User, error) {
	user, err := s.GetUser(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		if strings.TrimSpace(*cmd.Name) == "" {
			return nil, apperrors.NewValidationError("name must not be empty")
		}
		user.Name = *cmd.Name
	}
	if cmd.PhoneNumber != nil {
		user.PhoneNumber = *cmd.PhoneNumber
	}
	if cmd.Address != nil {
		user.Address = *cmd.Address
	}
	if cmd.Age != nil {
		if *cmd.Age <= 0 {
			return nil, apperrors.NewValidationError("age must be positive")
		}
		user.Age = *cmd.Age
	}

	if cmd.Avatar != nil {
		img, err := s.images.Upload(ctx, cmd.Avatar.Name, cmd.Avatar.Content)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to upload avatar image", err)
		}
		if user.ImageStorageID != "" {
			if err := s.images.Delete(ctx, user.ImageStorageID); err != nil {
				log.Warn().Err(err).Str("storage_id", user.ImageStorageID).Msg("failed to delete replaced avatar image")
			}
		}
		user.Image = img.Link
		user.ImageStorageID = img.StorageID
	}

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperrors.NewInternalError("failed to update user", err)
	}
	return user, nil
}

// DeleteUser removes a user and their stored avatar image. Their bookings and
// reviews are left in place for record keeping.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.ImageStorageID != "" {
		if err := s.images.Delete(ctx, user.ImageStorageID); err != nil {
			log.Warn().Err(err).Str("storage_id", user.ImageStorageID).Msg("failed to delete avatar image")
		}
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return apperrors.NewInternalError("failed to delete user", err)
	}
	return nil
}

func generateSignupToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
