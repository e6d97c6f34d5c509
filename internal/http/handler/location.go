package handler

import (
	"encoding/json"
	"net/http"

	"kilroy/internal/kilroy"
	"kilroy/internal/place"
	"kilroy/internal/session"
	"kilroy/internal/state"
)

type LocationHandler struct {
	Resolver *place.Resolver
	Svc      *kilroy.Service
}

type locationReq struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// Denied marks the client's geolocation as refused or timed out.
	Denied bool `json:"denied"`
}

// Update resolves the session's coordinates to a sticky Place and reports
// whether anything has been left there. The existence check only feeds a
// client-side notification; its failures never surface.
func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req locationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	st := state.New()
	st.SetVerified(sess.Verified)

	w.Header().Set("Content-Type", "application/json")

	if req.Denied {
		st.SetLocationDenied(true)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"location_denied": true,
		})
		return
	}

	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		http.Error(w, "invalid coordinates", http.StatusBadRequest)
		return
	}

	p := h.Resolver.Resolve(r.Context(), sess.ID, req.Latitude, req.Longitude)
	st.SetPlace(p)

	_ = json.NewEncoder(w).Encode(map[string]any{
		"place":       p,
		"has_kilroys": h.Svc.HasAny(r.Context(), p.PlaceID),
	})
}
