package kilroy

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"kilroy/internal/blob"
	"kilroy/internal/circle"
	"kilroy/internal/metrics"
	"kilroy/internal/place"
)

// Service creates and lists kilroys for a place. It owns the
// ensure-place -> upload -> get-url -> write-document ordering; later
// steps depend on earlier results, so there is no reordering, no retry,
// and no transaction across the blob and document writes. A failure after
// upload leaves an orphaned blob, accepted and not cleaned up.
type Service struct {
	Store Store
	Blobs blob.Store

	// Now is swappable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *Service) clock() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// EnsurePlace creates the place metadata record if absent. Read-check-
// then-write: two concurrent first-posters may both write, which is
// harmless since the payload is derived solely from the place.
func (s *Service) EnsurePlace(ctx context.Context, p place.Place) error {
	_, err := s.Store.GetPlace(ctx, p.PlaceID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	meta := &PlaceMetadata{
		PlaceID:   p.PlaceID,
		PlaceName: p.PlaceName,
		Address:   p.Address,
		CreatedAt: s.clock().UnixMilli(),
	}
	return s.Store.SavePlace(ctx, meta)
}

// List returns the place's kilroys newest-first. A non-nil filter selects
// exactly one circle; unverified viewers are restricted to community
// whether they filter or not.
func (s *Service) List(ctx context.Context, placeID string, filter *circle.Circle, viewerVerified bool) ([]Kilroy, error) {
	if filter != nil {
		c := circle.Coerce(viewerVerified, *filter)
		filter = &c
	} else if !viewerVerified {
		c := circle.Community
		filter = &c
	}
	return s.Store.ListKilroys(ctx, placeID, filter)
}

// HasAny reports whether the place has any kilroys. Used only for the
// non-critical arrival notification; failures are swallowed.
func (s *Service) HasAny(ctx context.Context, placeID string) bool {
	ok, err := s.Store.HasKilroys(ctx, placeID)
	if err != nil {
		log.Printf("has kilroys %s: %v", placeID, err)
		return false
	}
	return ok
}

// Create uploads the normalized image and writes the post record. The
// target circle is coerced to community for unverified posters.
func (s *Service) Create(ctx context.Context, p place.Place, imageData []byte, caption string, c circle.Circle, posterVerified bool) (*Kilroy, error) {
	if err := s.EnsurePlace(ctx, p); err != nil {
		return nil, fmt.Errorf("ensure place: %w", err)
	}

	c = circle.Coerce(posterVerified, c)
	now := s.clock()
	id := newID(now)

	key := fmt.Sprintf("kilroys/%s/%s.jpg", p.PlaceID, id)
	imageURL, err := s.Blobs.Put(ctx, key, imageData, "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	k := &Kilroy{
		ID:        id,
		PlaceID:   p.PlaceID,
		ImageURL:  imageURL,
		Caption:   truncateCaption(caption),
		Circle:    c,
		CreatedAt: now.UnixMilli(),
	}
	if err := s.Store.SaveKilroy(ctx, k); err != nil {
		return nil, fmt.Errorf("save kilroy: %w", err)
	}

	metrics.KilroysCreated.WithLabelValues(string(c)).Inc()
	metrics.NormalizedImageBytes.Observe(float64(len(imageData)))
	return k, nil
}

func truncateCaption(caption string) string {
	caption = strings.TrimSpace(caption)
	runes := []rune(caption)
	if len(runes) > MaxCaptionLength {
		return string(runes[:MaxCaptionLength])
	}
	return caption
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// newID keeps the original weak-uniqueness contract: unix millis plus a
// 7-char random base36 suffix. Negligible collision odds within one
// place's volume, not cryptographically unique.
func newID(t time.Time) string {
	suffix := make([]byte, 7)
	for i := range suffix {
		suffix[i] = base36[rand.IntN(len(base36))]
	}
	return strconv.FormatInt(t.UnixMilli(), 10) + "_" + string(suffix)
}
