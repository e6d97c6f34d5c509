package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemStore writes blobs under a media root and builds URLs from a
// public base. The served tree is expected to be mounted read-only by the
// HTTP layer (or a front proxy).
type FilesystemStore struct {
	root    string
	baseURL string
}

func NewFilesystemStore(root, baseURL string) (*FilesystemStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &FilesystemStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *FilesystemStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key: %s", key)
	}
	dest := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("create blob dir: %w", err)
	}

	// temp file + rename so readers never see partial writes
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename blob: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

var _ Store = (*FilesystemStore)(nil)
