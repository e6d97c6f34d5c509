package handler

import (
	"encoding/json"
	"net/http"

	"kilroy/internal/session"
)

// Geolocation request parameters the client should pass to its
// positioning API: high accuracy, 10s timeout, 60s max cached age.
const (
	geoTimeoutMS = 10000
	geoMaxAgeMS  = 60000
)

type SessionHandler struct {
	Tokens *session.Tokens
}

type geolocationParams struct {
	HighAccuracy bool `json:"high_accuracy"`
	TimeoutMS    int  `json:"timeout_ms"`
	MaximumAgeMS int  `json:"maximum_age_ms"`
}

func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	s := session.New()
	token, err := h.Tokens.Sign(s)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"token": token,
		"geolocation": geolocationParams{
			HighAccuracy: true,
			TimeoutMS:    geoTimeoutMS,
			MaximumAgeMS: geoMaxAgeMS,
		},
	})
}
