package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wanderlyst/backend/internal/domain/entities"
	"github.com/wanderlyst/backend/internal/domain/providers"
	"github.com/wanderlyst/backend/internal/domain/repositories"
	apperrors "github.com/wanderlyst/backend/pkg/errors"
)

// TourService manages tours, their guide membership and their images. The
// tour owns its images: whenever an image is replaced or removed, or the tour
// is deleted, the backing object is deleted from the image store through its
// storage id.
type TourService struct {
	tourRepo repositories.TourRepository
	userRepo repositories.UserRepository
	images   providers.ImageStore
}

// NewTourService creates a new tour service
func NewTourService(
	tourRepo repositories.TourRepository,
	userRepo repositories.UserRepository,
	images providers.ImageStore,
) *TourService {
	return &TourService{
		tourRepo: tourRepo,
		userRepo: userRepo,
		images:   images,
	}
}

// ImageUpload is a raw image handed to the service by the transport layer.
type ImageUpload struct {
	Name    string
	Content io.Reader
}

// PostTourCommand is the validated input for PostTour.
type PostTourCommand struct {
	Name        string
	Description string
	Difficulty  entities.Difficulty
	Duration    string
	Capacity    int
	Price       float64
	Dates       []time.Time
	Locations   []entities.Location
	Guides      []string
	Images      []ImageUpload
}

// PostTour creates a tour. Guides are validated for existence and role; an
// upload-less tour gets the default cover image.
func (s *TourService) PostTour(ctx context.Context, cmd PostTourCommand) (*entities.Tour, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, apperrors.NewValidationError("tour name must not be empty")
	}
	if strings.TrimSpace(cmd.Description) == "" {
		return nil, apperrors.NewValidationError("tour description must not be empty")
	}
	if !cmd.Difficulty.Valid() {
		return nil, apperrors.NewValidationError("difficulty must be easy, medium or hard")
	}
	if strings.TrimSpace(cmd.Duration) == "" {
		return nil, apperrors.NewValidationError("tour duration must not be empty")
	}
	if cmd.Capacity <= 0 {
		return nil, apperrors.NewValidationError("capacity must be positive")
	}
	if cmd.Price <= 0 {
		return nil, apperrors.NewValidationError("price must be positive")
	}
	if len(cmd.Dates) == 0 {
		return nil, apperrors.NewValidationError("at least one tour date is required")
	}
	if len(cmd.Locations) == 0 {
		return nil, apperrors.NewValidationError("at least one tour location is required")
	}

	guides := make([]string, 0, len(cmd.Guides))
	for _, guideID := range cmd.Guides {
		if err := s.requireGuide(ctx, guideID); err != nil {
			return nil, err
		}
		guides = AddUnique(guides, guideID)
	}

	images, err := s.uploadAll(ctx, cmd.Images)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		images = append(images, s.images.DefaultTourImage())
	}

	tour := &entities.Tour{
		ID:          uuid.New().String(),
		Name:        cmd.Name,
		Description: cmd.Description,
		Difficulty:  cmd.Difficulty,
		Duration:    cmd.Duration,
		Capacity:    cmd.Capacity,
		Price:       cmd.Price,
		Rating:      0,
		Images:      images,
		Locations:   cmd.Locations,
		Dates:       cmd.Dates,
		Guides:      guides,
		Reviews:     []string{},
		CreatedAt:   time.Now(),
	}
	if err := s.tourRepo.Create(ctx, tour); err != nil {
		return nil, apperrors.NewInternalError("failed to create tour", err)
	}
	return tour, nil
}

// UpdateTourCommand is the validated input for UpdateTour. Nil fields are left
// unchanged. When ImagesChanged is set, KeepStorageIDs names the surviving
// uploads; all other stored images are deleted and NewImages are uploaded.
type UpdateTourCommand struct {
	TourID         string
	Name           *string
	Description    *string
	Difficulty     *entities.Difficulty
	Duration       *string
	Capacity       *int
	Price          *float64
	Dates          []time.Time
	Locations      []entities.Location
	ImagesChanged  bool
	KeepStorageIDs []string
	NewImages      []ImageUpload
}

// UpdateTour updates a tour's descriptive fields and image set.
func (s *TourService) UpdateTour(ctx context.Context, cmd UpdateTourCommand) (*entities.Tour, error) {
	tour, err := s.tourRepo.GetByID(ctx, cmd.TourID)
	if err != nil {
		return nil, err
	}
	if tour == nil {
		return nil, apperrors.NewNotFoundError("no tour found with id " + cmd.TourID)
	}

	if cmd.Name != nil {
		if strings.TrimSpace(*cmd.Name) == "" {
			return nil, apperrors.NewValidationError("tour name must not be empty")
		}
		tour.Name = *cmd.Name
	}
	if cmd.Description != nil {
		if strings.TrimSpace(*cmd.Description) == "" {
			return nil, apperrors.NewValidationError("tour description must not be empty")
		}
		tour.Description = *cmd.Description
	}
	if cmd.Difficulty != nil {
		if !cmd.Difficulty.Valid() {
			return nil, apperrors.NewValidationError("difficulty must be easy, medium or hard")
		}
		tour.Difficulty = *cmd.Difficulty
	}
	if cmd.Duration != nil {
		tour.Duration = *cmd.Duration
	}
	if cmd.Capacity != nil {
		if *cmd.Capacity <= 0 {
			return nil, apperrors.NewValidationError("capacity must be positive")
		}
		tour.Capacity = *cmd.Capacity
	}
	if cmd.Price != nil {
		if *cmd.Price <= 0 {
			return nil, apperrors.NewValidationError("price must be positive")
		}
		tour.Price = *cmd.Price
	}
	if cmd.Dates != nil {
		if len(cmd.Dates) == 0 {
			return nil, apperrors.NewValidationError("at least one tour date is required")
		}
		tour.Dates = cmd.Dates
	}
	if cmd.Locations != nil {
		if len(cmd.Locations) == 0 {
			return nil, apperrors.NewValidationError("at least one tour location is required")
		}
		tour.Locations = cmd.Locations
	}

	if cmd.ImagesChanged {
		kept := make([]entities.TourImage, 0, len(tour.Images))
		for _, img := range tour.Images {
			if img.StorageID != "" && ContainsID(cmd.KeepStorageIDs, img.StorageID) {
				kept = append(kept, img)
				continue
			}
			if img.StorageID != "" {
				if err := s.images.Delete(ctx, img.StorageID); err != nil {
					log.Warn().Err(err).Str("storage_id", img.StorageID).Msg("failed to delete replaced tour image")
				}
			}
		}
		uploaded, err := s.uploadAll(ctx, cmd.NewImages)
		if err != nil {
			return nil, err
		}
		kept = append(kept, uploaded...)
		if len(kept) == 0 {
			kept = append(kept, s.images.DefaultTourImage())
		}
		tour.Images = kept
	}

	tour.UpdatedAt = time.Now()
	if err := s.tourRepo.Update(ctx, tour); err != nil {
		return nil, apperrors.NewInternalError("failed to update tour", err)
	}
	return tour, nil
}

// DeleteTour removes a tour and every image it owns.
func (s *TourService) DeleteTour(ctx context.Context, tourID string) error {
	tour, err := s.tourRepo.GetByID(ctx, tourID)
	if err != nil {
		return err
	}
	if tour == nil {
		return apperrors.NewNotFoundError("no tour found with id " + tourID)
	}
	for _, img := range tour.Images {
		if img.StorageID == "" {
			continue
		}
		if err := s.images.Delete(ctx, img.StorageID); err != nil {
			log.Warn().Err(err).Str("storage_id", img.StorageID).Msg("failed to delete tour image")
		}
	}
	if err := s.tourRepo.Delete(ctx, tourID); err != nil {
		return apperrors.NewInternalError("failed to delete tour", err)
	}
	return nil
}

// GetAllTours returns every tour.
func (s *TourService) GetAllTours(ctx context.Context) ([]*entities.Tour, error) {
	return s.tourRepo.List(ctx)
}

// GetTour fetches a single tour.
func (s *TourService) GetTour(ctx context.Context, tourID string) (*entities.Tour, error) {
	tour, err := s.tourRepo.GetByID(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if tour == nil {
		return nil, apperrors.NewNotFoundError("no tour found with id " + tourID)
	}
	return tour, nil
}

// AddGuidesToTour adds each candidate to the tour's guide list. Every
// candidate must be an existing user with the guide role; membership is
// duplicate-free and order-preserving.
func (s *TourService) AddGuidesToTour(ctx context.Context, tourID string, guideIDs []string) (*entities.Tour, error) {
	if len(guideIDs) == 0 {
		return nil, apperrors.NewValidationError("add at least one guide")
	}
	tour, err := s.tourRepo.GetByID(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if tour == nil {
		return nil, apperrors.NewNotFoundError("no tour found with id " + tourID)
	}

	guides := tour.Guides
	for _, guideID := range guideIDs {
		if err := s.requireGuide(ctx, guideID); err != nil {
			return nil, err
		}
		guides = AddUnique(guides, guideID)
	}

	if err := s.tourRepo.UpdateGuides(ctx, tourID, guides); err != nil {
		return nil, apperrors.NewInternalError("failed to update tour guides", err)
	}
	tour.Guides = guides
	return tour, nil
}

// RemoveGuidesFromTour removes each candidate from the tour's guide list.
// Candidates must exist as users; the role is not checked on removal so a
// demoted guide can still be detached.
func (s *TourService) RemoveGuidesFromTour(ctx context.Context, tourID string, guideIDs []string) (*entities.Tour, error) {
	if len(guideIDs) == 0 {
		return nil, apperrors.NewValidationError("specify guides to remove")
	}
	tour, err := s.tourRepo.GetByID(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if tour == nil {
		return nil, apperrors.NewNotFoundError("no tour found with id " + tourID)
	}

	guides := tour.Guides
	for _, guideID := range guideIDs {
		user, err := s.userRepo.GetByID(ctx, guideID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, apperrors.NewNotFoundError("no guide found with id " + guideID)
		}
		guides = RemoveID(guides, guideID)
	}

	if err := s.tourRepo.UpdateGuides(ctx, tourID, guides); err != nil {
		return nil, apperrors.NewInternalError("failed to update tour guides", err)
	}
	tour.Guides = guides
	return tour, nil
}

func (s *TourService) requireGuide(ctx context.Context, guideID string) error {
	user, err := s.userRepo.GetByID(ctx, guideID)
	if err != nil {
		return err
	}
	if user == nil || user.Role != entities.RoleGuide {
		return apperrors.NewNotFoundError("no guide found with id " + guideID)
	}
	return nil
}

func (s *TourService) uploadAll(ctx context.Context, uploads []ImageUpload) ([]entities.TourImage, error) {
	images := make([]entities.TourImage, 0, len(uploads))
	for _, upload := range uploads {
		img, err := s.images.Upload(ctx, upload.Name, upload.Content)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to upload tour image", err)
		}
		images = append(images, img)
	}
	return images, nil
}
