package handlers

import (
	"context"
	"net/http"

	"github.com/wanderlyst/backend/internal/application/services"
	"github.com/wanderlyst/backend/internal/domain/entities"
)

// QueryService defines the interface for contact query operations
type QueryService interface {
	PostQuery(ctx context.Context, cmd services.PostQueryCommand) (*entities.Query, error)
	GetAllQueries(ctx context.Context) ([]*entities.Query, error)
	ReplyQuery(ctx context.Context, queryID, reply string) error
}

// QueryHandler handles contact query requests
type QueryHandler struct {
	service QueryService
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(service QueryService) *QueryHandler {
	return &QueryHandler{service: service}
}

type postQueryRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// PostQuery handles POST /api/queries
func (h *QueryHandler) PostQuery(w http.ResponseWriter, r *http.Request) {
	var req postQueryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "name, email and message are required")
		return
	}

	query, err := h.service.PostQuery(r.Context(), services.PostQueryCommand{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, query)
}

// GetAllQueries handles GET /api/queries
func (h *QueryHandler) GetAllQueries(w http.ResponseWriter, r *http.Request) {
	queries, err := h.service.GetAllQueries(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, queries)
}

type replyQueryRequest struct {
	Reply string `json:"reply" validate:"required"`
}

// ReplyQuery handles POST /api/queries/{id}/reply
func (h *QueryHandler) ReplyQuery(w http.ResponseWriter, r *http.Request) {
	queryID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req replyQueryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "reply must not be empty")
		return
	}

	if err := h.service.ReplyQuery(r.Context(), queryID, req.Reply); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "reply sent",
	})
}
