package handler

import (
	"encoding/json"
	"net/http"

	"kilroy/internal/session"
	"kilroy/internal/verify"
)

type VerifyHandler struct {
	Tokens   *session.Tokens
	Verifier verify.Verifier
}

// Verify runs the identity challenge outcome through the provider and,
// on success, re-issues the session token with the verified claim set.
func (h *VerifyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var proof verify.Proof
	if err := json.NewDecoder(r.Body).Decode(&proof); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	ok, err := h.Verifier.Verify(r.Context(), proof)
	if err != nil {
		http.Error(w, "verification unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		_ = json.NewEncoder(w).Encode(map[string]any{"verified": false})
		return
	}

	sess.Verified = true
	token, err := h.Tokens.Sign(sess)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"verified": true,
		"token":    token,
	})
}
