package handlers

import (
	"context"
	"net/http"

	"github.com/wanderlyst/backend/internal/api/middleware"
	"github.com/wanderlyst/backend/internal/application/services"
	"github.com/wanderlyst/backend/internal/domain/entities"
)

// UserService defines the interface for user and auth operations
type UserService interface {
	RequestSignupToken(ctx context.Context, email string) error
	VerifySignupToken(ctx context.Context, email, token string) error
	Signup(ctx context.Context, cmd services.SignupCommand) (*entities.User, string, error)
	Login(ctx context.Context, email, password string) (*entities.User, string, error)
	GetMe(ctx context.Context, principal entities.Principal) (*entities.User, error)
	GetUser(ctx context.Context, userID string) (*entities.User, error)
	UpdateMe(ctx context.Context, principal entities.Principal, cmd services.UpdateMeCommand) (*entities.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

// UserHandler handles user and auth requests
type UserHandler struct {
	service UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

type requestSignupTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RequestSignupToken handles POST /api/users/signup/token
func (h *UserHandler) RequestSignupToken(w http.ResponseWriter, r *http.Request) {
	var req requestSignupTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "a valid email is required")
		return
	}

	if err := h.service.RequestSignupToken(r.Context(), req.Email); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusAccepted, map[string]string{
		"message": "confirmation token sent",
	})
}

type verifySignupTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required"`
}

// VerifySignupToken handles POST /api/users/signup/verify
func (h *UserHandler) VerifySignupToken(w http.ResponseWriter, r *http.Request) {
	var req verifySignupTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "email and token are required")
		return
	}

	if err := h.service.VerifySignupToken(r.Context(), req.Email, req.Token); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "email verified",
	})
}

type signupRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,len=10,numeric"`
	Age         int    `json:"age" validate:"omitempty,gt=0,lt=130"`
}

// Signup handles POST /api/users/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid signup payload")
		return
	}

	user, token, err := h.service.Signup(r.Context(), services.SignupCommand{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Age:         req.Age,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// GetMe handles GET /api/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	user, err := h.service.GetMe(r.Context(), principal)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

type updateMeRequest struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,len=10,numeric"`
	Address     *string `json:"address"`
	Age         *int    `json:"age" validate:"omitempty,gt=0,lt=130"`
}

// UpdateMe handles PATCH /api/users/me. A JSON body updates profile fields;
// a multipart body may additionally carry an avatar file under "avatar" with
// the JSON fields in a "data" part.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	var req updateMeRequest
	cmd := services.UpdateMeCommand{}

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid multipart payload")
			return
		}
		if data := r.FormValue("data"); data != "" {
			if !decodeJSONString(w, data, &req) {
				return
			}
		}
		file, header, err := r.FormFile("avatar")
		if err == nil {
			defer file.Close()
			cmd.Avatar = &services.ImageUpload{Name: header.Filename, Content: file}
		} else if err != http.ErrMissingFile {
			respondWithError(w, http.StatusBadRequest, "invalid avatar upload")
			return
		}
	} else {
		if !decodeJSON(w, r, &req) {
			return
		}
	}

	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid profile payload")
		return
	}

	cmd.Name = req.Name
	cmd.PhoneNumber = req.PhoneNumber
	cmd.Address = req.Address
	cmd.Age = req.Age

	user, err := h.service.UpdateMe(r.Context(), principal, cmd)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
