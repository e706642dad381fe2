package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/wanderlyst/backend/internal/domain/entities"
	"github.com/wanderlyst/backend/internal/domain/providers"
	"github.com/wanderlyst/backend/pkg/config"
)

// LocalStore implements the ImageStore interface on the local filesystem.
// Uploads are stored under a random name; the storage id is the file name,
// never a caller-supplied path.
type LocalStore struct {
	baseDir      string
	baseURL      string
	defaultImage string
}

// NewLocalStore creates a new local image store
func NewLocalStore(cfg *config.MediaConfig) (*LocalStore, error) {
	if cfg.BaseDir == "" {
		return nil, fmt.Errorf("MEDIA_BASE_DIR must be set")
	}
	if err := os.MkdirAll(cfg.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &LocalStore{
		baseDir:      cfg.BaseDir,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		defaultImage: cfg.DefaultTourImage,
	}, nil
}

var _ providers.ImageStore = (*LocalStore)(nil)

// Upload stores an image and returns its public link and storage id.
func (s *LocalStore) Upload(ctx context.Context, name string, content io.Reader) (entities.TourImage, error) {
	if err := ctx.Err(); err != nil {
		return entities.TourImage{}, err
	}

	storageID := uuid.New().String() + sanitizeExt(name)
	path := filepath.Join(s.baseDir, storageID)

	file, err := os.Create(path)
	if err != nil {
		return entities.TourImage{}, fmt.Errorf("failed to create image file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		os.Remove(path)
		return entities.TourImage{}, fmt.Errorf("failed to write image file: %w", err)
	}

	return entities.TourImage{
		Link:      s.baseURL + "/" + storageID,
		StorageID: storageID,
	}, nil
}

// Delete removes a stored image. Deleting an already-removed image is not an
// error.
func (s *LocalStore) Delete(ctx context.Context, storageID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if storageID != filepath.Base(storageID) {
		return fmt.Errorf("invalid storage id %q", storageID)
	}

	err := os.Remove(filepath.Join(s.baseDir, storageID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image file: %w", err)
	}
	return nil
}

// DefaultTourImage returns the stock cover image. It has no storage id, so it
// is never deleted.
func (s *LocalStore) DefaultTourImage() entities.TourImage {
	return entities.TourImage{Link: s.defaultImage}
}

func sanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return ext
	default:
		return ".jpg"
	}
}
