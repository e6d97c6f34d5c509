package kilroy

import (
	"context"
	"errors"

	"kilroy/internal/circle"
)

var ErrNotFound = errors.New("not found")

// Store is the document-store contract the service runs over. Listing is
// always ordered created_at descending; circle filtering happens at the
// query layer, not client-side.
type Store interface {
	GetPlace(ctx context.Context, placeID string) (*PlaceMetadata, error)
	SavePlace(ctx context.Context, meta *PlaceMetadata) error

	SaveKilroy(ctx context.Context, k *Kilroy) error
	ListKilroys(ctx context.Context, placeID string, c *circle.Circle) ([]Kilroy, error)
	HasKilroys(ctx context.Context, placeID string) (bool, error)
}
