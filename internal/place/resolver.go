package place

import (
	"context"
	"log"

	"kilroy/internal/metrics"
)

// DefaultRadius is the nearby-search radius in the provider's units.
const DefaultRadius = 50

// Resolver maps coordinates to a stable Place through a total fallback
// chain: session cache -> nearby named place -> reverse geocode ->
// coordinate-derived place. It never fails; every tier failure falls
// through to the next, and the last tier is local.
type Resolver struct {
	Cache    Cache
	Provider Provider
	Radius   int
}

func NewResolver(cache Cache, provider Provider) *Resolver {
	return &Resolver{Cache: cache, Provider: provider, Radius: DefaultRadius}
}

// Cached returns the session's sticky place, or nil.
func (r *Resolver) Cached(ctx context.Context, sessionID string) *Place {
	p, err := r.Cache.Get(ctx, sessionID)
	if err != nil {
		log.Printf("place cache read: %v", err)
		return nil
	}
	return p
}

// Resolve returns the Place for the coordinates. A cache hit wins
// unconditionally, even if the coordinates have since changed: resolution
// is sticky for the session.
func (r *Resolver) Resolve(ctx context.Context, sessionID string, lat, lng float64) Place {
	if cached := r.Cached(ctx, sessionID); cached != nil {
		metrics.PlaceResolutions.WithLabelValues("cache").Inc()
		return *cached
	}

	if !r.Provider.Configured() {
		return r.finish(ctx, sessionID, FromCoordinates(lat, lng), "coordinates")
	}

	if candidates, err := r.Provider.NearbySearch(ctx, lat, lng, r.radius()); err == nil && len(candidates) > 0 {
		top := candidates[0]
		p := Place{PlaceID: top.PlaceID, PlaceName: top.Name, Address: top.Vicinity}
		return r.finish(ctx, sessionID, p, "nearby")
	} else if err != nil {
		log.Printf("nearby search: %v", err)
	}

	if results, err := r.Provider.ReverseGeocode(ctx, lat, lng); err == nil && len(results) > 0 {
		top := results[0]
		id := top.PlaceID
		if id == "" {
			id = IDFromAddress(top.FormattedAddress)
		}
		p := Place{PlaceID: id, PlaceName: top.FormattedAddress, Address: top.FormattedAddress}
		return r.finish(ctx, sessionID, p, "geocode")
	} else if err != nil {
		log.Printf("reverse geocode: %v", err)
	}

	return r.finish(ctx, sessionID, FromCoordinates(lat, lng), "coordinates")
}

// finish caches the resolved place before returning it. A cache write
// failure does not fail resolution.
func (r *Resolver) finish(ctx context.Context, sessionID string, p Place, tier string) Place {
	if err := r.Cache.Put(ctx, sessionID, p); err != nil {
		log.Printf("place cache write: %v", err)
	}
	metrics.PlaceResolutions.WithLabelValues(tier).Inc()
	return p
}

func (r *Resolver) radius() int {
	if r.Radius > 0 {
		return r.Radius
	}
	return DefaultRadius
}
