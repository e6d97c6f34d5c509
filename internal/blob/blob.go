// Package blob provides path-addressed object storage returning a
// publicly retrievable URL per object.
package blob

import (
	"context"
	"fmt"

	"kilroy/internal/config"
)

// Store is the blob storage backend. Put writes data under key and
// returns the URL the object can be fetched from.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// NewFromConfig selects a Store implementation from the blob config.
func NewFromConfig(cfg config.Blob) (Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem":
		if cfg.MediaRoot == "" {
			return nil, fmt.Errorf("filesystem blob store requires MEDIA_ROOT")
		}
		return NewFilesystemStore(cfg.MediaRoot, cfg.MediaBaseURL)
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 blob store requires S3_BUCKET")
		}
		return NewS3Store(cfg)
	default:
		return nil, fmt.Errorf("unknown blob backend: %s", cfg.Backend)
	}
}
