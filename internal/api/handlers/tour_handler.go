package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/wanderlyst/backend/internal/application/services"
	"github.com/wanderlyst/backend/internal/domain/entities"
)

// TourService defines the interface for tour operations
type TourService interface {
	PostTour(ctx context.Context, cmd services.PostTourCommand) (*entities.Tour, error)
	UpdateTour(ctx context.Context, cmd services.UpdateTourCommand) (*entities.Tour, error)
	DeleteTour(ctx context.Context, tourID string) error
	GetAllTours(ctx context.Context) ([]*entities.Tour, error)
	GetTour(ctx context.Context, tourID string) (*entities.Tour, error)
	AddGuidesToTour(ctx context.Context, tourID string, guideIDs []string) (*entities.Tour, error)
	RemoveGuidesFromTour(ctx context.Context, tourID string, guideIDs []string) (*entities.Tour, error)
}

// TourHandler handles tour requests
type TourHandler struct {
	service TourService
}

// NewTourHandler creates a new tour handler
func NewTourHandler(service TourService) *TourHandler {
	return &TourHandler{service: service}
}

type postTourRequest struct {
	Name        string              `json:"name" validate:"required"`
	Description string              `json:"description" validate:"required"`
	Difficulty  string              `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Duration    string              `json:"duration" validate:"required"`
	Capacity    int                 `json:"capacity" validate:"required,gt=0"`
	Price       float64             `json:"price" validate:"required,gt=0"`
	Dates       []time.Time         `json:"dates" validate:"required,min=1"`
	Locations   []entities.Location `json:"locations"`
	Guides      []string            `json:"guides" validate:"omitempty,dive,uuid"`
}

// PostTour handles POST /api/tours. A plain JSON body creates a tour with the
// default cover image; a multipart body carries the JSON in a "data" part and
// any number of files under "images".
func (h *TourHandler) PostTour(w http.ResponseWriter, r *http.Request) {
	var req postTourRequest
	var uploads []services.ImageUpload
	var closers []multipart.File

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid multipart payload")
			return
		}
		if !decodeJSONString(w, r.FormValue("data"), &req) {
			return
		}
		uploads, closers = formImages(r, "images")
	} else {
		if !decodeJSON(w, r, &req) {
			return
		}
	}
	defer closeAll(closers)

	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid tour payload")
		return
	}

	tour, err := h.service.PostTour(r.Context(), services.PostTourCommand{
		Name:        req.Name,
		Description: req.Description,
		Difficulty:  entities.Difficulty(req.Difficulty),
		Duration:    req.Duration,
		Capacity:    req.Capacity,
		Price:       req.Price,
		Dates:       req.Dates,
		Locations:   req.Locations,
		Guides:      req.Guides,
		Images:      uploads,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, tour)
}

type updateTourRequest struct {
	Name           *string             `json:"name"`
	Description    *string             `json:"description"`
	Difficulty     *string             `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Duration       *string             `json:"duration"`
	Capacity       *int                `json:"capacity" validate:"omitempty,gt=0"`
	Price          *float64            `json:"price" validate:"omitempty,gt=0"`
	Dates          []time.Time         `json:"dates"`
	Locations      []entities.Location `json:"locations"`
	ImagesChanged  bool                `json:"images_changed"`
	KeepStorageIDs []string            `json:"keep_storage_ids"`
}

// UpdateTour handles PATCH /api/tours/{id}. When images_changed is set the
// tour's image list is rebuilt from keep_storage_ids plus any uploaded files;
// images absent from both are deleted from storage.
func (h *TourHandler) UpdateTour(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateTourRequest
	var uploads []services.ImageUpload
	var closers []multipart.File

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid multipart payload")
			return
		}
		if !decodeJSONString(w, r.FormValue("data"), &req) {
			return
		}
		uploads, closers = formImages(r, "images")
	} else {
		if !decodeJSON(w, r, &req) {
			return
		}
	}
	defer closeAll(closers)

	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid tour payload")
		return
	}

	cmd := services.UpdateTourCommand{
		TourID:         tourID,
		Name:           req.Name,
		Description:    req.Description,
		Duration:       req.Duration,
		Capacity:       req.Capacity,
		Price:          req.Price,
		Dates:          req.Dates,
		Locations:      req.Locations,
		ImagesChanged:  req.ImagesChanged,
		KeepStorageIDs: req.KeepStorageIDs,
		NewImages:      uploads,
	}
	if req.Difficulty != nil {
		difficulty := entities.Difficulty(*req.Difficulty)
		cmd.Difficulty = &difficulty
	}

	tour, err := h.service.UpdateTour(r.Context(), cmd)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tour)
}

// DeleteTour handles DELETE /api/tours/{id}
func (h *TourHandler) DeleteTour(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTour(r.Context(), tourID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetAllTours handles GET /api/tours
func (h *TourHandler) GetAllTours(w http.ResponseWriter, r *http.Request) {
	tours, err := h.service.GetAllTours(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tours)
}

// GetTour handles GET /api/tours/{id}
func (h *TourHandler) GetTour(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	tour, err := h.service.GetTour(r.Context(), tourID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tour)
}

type tourGuidesRequest struct {
	Guides []string `json:"guides" validate:"required,min=1,dive,uuid"`
}

// AddGuides handles POST /api/tours/{id}/guides
func (h *TourHandler) AddGuides(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req tourGuidesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "guides must be a non-empty list of ids")
		return
	}

	tour, err := h.service.AddGuidesToTour(r.Context(), tourID, req.Guides)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tour)
}

// RemoveGuides handles DELETE /api/tours/{id}/guides
func (h *TourHandler) RemoveGuides(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req tourGuidesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "guides must be a non-empty list of ids")
		return
	}

	tour, err := h.service.RemoveGuidesFromTour(r.Context(), tourID, req.Guides)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tour)
}

// formImages collects the uploaded files under the given multipart field.
// Callers must close the returned files once the request is served.
func formImages(r *http.Request, field string) ([]services.ImageUpload, []multipart.File) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var uploads []services.ImageUpload
	var closers []multipart.File
	for _, header := range r.MultipartForm.File[field] {
		file, err := header.Open()
		if err != nil {
			continue
		}
		uploads = append(uploads, services.ImageUpload{Name: header.Filename, Content: file})
		closers = append(closers, file)
	}
	return uploads, closers
}

func closeAll(files []multipart.File) {
	for _, f := range files {
		f.Close()
	}
}
