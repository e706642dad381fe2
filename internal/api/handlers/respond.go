package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	apperrors "github.com/wanderlyst/backend/pkg/errors"
)

// validate checks the validator tags on request payload structs.
var validate = validator.New()

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps the error taxonomy onto HTTP status codes.
func respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		log.Error().Err(err).Msg("unclassified handler error")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeUnauthorized:
		respondWithError(w, http.StatusUnauthorized, appErr.Message)
	case apperrors.ErrorTypeForbidden:
		respondWithError(w, http.StatusForbidden, appErr.Message)
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeConflict:
		respondWithError(w, http.StatusConflict, appErr.Message)
	default:
		log.Error().Err(appErr).Msg("internal handler error")
		respondWithError(w, http.StatusInternalServerError, appErr.Message)
	}
}

// pathID extracts and validates a uuid path parameter. Ill-formed ids are
// reported as validation failures, not as missing resources.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := r.PathValue(name)
	if _, err := uuid.Parse(id); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid "+name)
		return "", false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}

// decodeJSONString decodes the "data" field of a multipart form.
func decodeJSONString(w http.ResponseWriter, data string, dst interface{}) bool {
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	return true
}

// maxUploadBytes caps the in-memory portion of multipart uploads.
const maxUploadBytes = 32 << 20

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
