package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanderlyst/backend/pkg/config"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(&config.MediaConfig{
		BaseDir:          t.TempDir(),
		BaseURL:          "/img/tours/",
		DefaultTourImage: "/img/tours/default.jpg",
	})
	require.NoError(t, err)
	return store
}

func TestLocalStore_UploadAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	img, err := store.Upload(ctx, "cover.PNG", strings.NewReader("png bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(img.StorageID, ".png"))
	assert.Equal(t, "/img/tours/"+img.StorageID, img.Link)

	data, err := os.ReadFile(filepath.Join(store.baseDir, img.StorageID))
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))

	require.NoError(t, store.Delete(ctx, img.StorageID))
	_, err = os.Stat(filepath.Join(store.baseDir, img.StorageID))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStore_UploadIgnoresCallerPath(t *testing.T) {
	store := newTestStore(t)

	img, err := store.Upload(context.Background(), "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.NotContains(t, img.StorageID, "/")
	assert.True(t, strings.HasSuffix(img.StorageID, ".jpg"))
}

func TestLocalStore_DeleteMissingIsNoop(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.Delete(context.Background(), "gone.jpg"))
}

func TestLocalStore_DeleteRejectsPathTraversal(t *testing.T) {
	store := newTestStore(t)

	assert.Error(t, store.Delete(context.Background(), "../outside.jpg"))
}

func TestLocalStore_DefaultTourImage(t *testing.T) {
	store := newTestStore(t)

	img := store.DefaultTourImage()
	assert.Equal(t, "/img/tours/default.jpg", img.Link)
	assert.Empty(t, img.StorageID)
}
