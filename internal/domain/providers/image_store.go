package providers

import (
	"context"
	"io"

	"github.com/wanderlyst/backend/internal/domain/entities"
)

// ImageStore defines the interface for binary image storage. The domain only
// ever sees the public link and the deletable storage id.
type ImageStore interface {
	// Upload stores an image and returns its public link plus storage id
	Upload(ctx context.Context, name string, content io.Reader) (entities.TourImage, error)

	// Delete removes a stored image by its storage id
	Delete(ctx context.Context, storageID string) error

	// DefaultTourImage returns the fallback cover image (empty storage id,
	// never deleted)
	DefaultTourImage() entities.TourImage
}
