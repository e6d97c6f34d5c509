package place

import (
	"fmt"
	"strconv"
)

// Place is a stable geographic/semantic location identity. Immutable once
// resolved; posts accumulate under its PlaceID across visits.
type Place struct {
	PlaceID   string `json:"place_id"`
	PlaceName string `json:"place_name"`
	Address   string `json:"address,omitempty"`
}

// IDFromAddress derives a stable place id from a formatted address when
// the geocoding provider returns no id of its own. Same address, same id.
func IDFromAddress(address string) string {
	var hash int32
	for _, c := range address {
		hash = hash*31 + int32(c)
	}
	h := int64(hash)
	if h < 0 {
		h = -h
	}
	return "addr_" + strconv.FormatInt(h, 36)
}

// FromCoordinates builds the last-resort Place when no provider is
// reachable: id and name both derived from the coordinates.
func FromCoordinates(lat, lng float64) Place {
	return Place{
		PlaceID:   fmt.Sprintf("geo_%.4f_%.4f", lat, lng),
		PlaceName: fmt.Sprintf("%.4f, %.4f", lat, lng),
	}
}
