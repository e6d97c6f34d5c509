package blob

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"kilroy/internal/config"
)

func configFor(backend, root string) config.Blob {
	return config.Blob{
		Backend:      backend,
		MediaRoot:    root,
		MediaBaseURL: "http://localhost:8080/media",
	}
}

func TestFilesystemStorePut(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	s, err := NewFilesystemStore(root, "http://localhost:8080/media/")
	require.NoError(t, err)

	url, err := s.Put(ctx, "kilroys/poi_1/abc.jpg", []byte("pixels"), "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/media/kilroys/poi_1/abc.jpg", url)

	data, err := os.ReadFile(filepath.Join(root, "kilroys", "poi_1", "abc.jpg"))
	require.NoError(t, err)
	require.Equal(t, []byte("pixels"), data)
}

func TestFilesystemStoreRejectsTraversal(t *testing.T) {
	s, err := NewFilesystemStore(t.TempDir(), "http://localhost:8080/media")
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "../escape.jpg", []byte("x"), "image/jpeg")
	require.Error(t, err)
}

func TestNewFromConfigFilesystem(t *testing.T) {
	store, err := NewFromConfig(configFor("filesystem", t.TempDir()))
	require.NoError(t, err)
	require.NotNil(t, store)

	cfg := configFor("filesystem", "")
	cfg.MediaRoot = ""
	_, err = NewFromConfig(cfg)
	require.Error(t, err)
}
