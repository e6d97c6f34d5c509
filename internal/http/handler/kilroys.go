package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"kilroy/internal/circle"
	img "kilroy/internal/image"
	"kilroy/internal/kilroy"
	"kilroy/internal/place"
	"kilroy/internal/session"
	"kilroy/internal/state"
)

const maxUploadBytes = 20 << 20

type KilroysHandler struct {
	Svc      *kilroy.Service
	Resolver *place.Resolver
}

// buildState assembles the request's application state from the session
// and the sticky place cache. Returns nil if no place is resolved yet.
func (h *KilroysHandler) buildState(r *http.Request, sess session.Session) *state.State {
	p := h.Resolver.Cached(r.Context(), sess.ID)
	if p == nil {
		return nil
	}
	st := state.New()
	st.SetVerified(sess.Verified)
	st.SetPlace(*p)
	return st
}

func (h *KilroysHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	st := h.buildState(r, sess)
	if st == nil {
		http.Error(w, "no place resolved", http.StatusConflict)
		return
	}

	var filter *circle.Circle
	if q := strings.TrimSpace(r.URL.Query().Get("circle")); q != "" {
		c, err := circle.Parse(q)
		if err != nil {
			http.Error(w, "invalid circle", http.StatusBadRequest)
			return
		}
		st.SetCircle(c)
		filter = &c
	}

	rows, err := h.Svc.List(r.Context(), st.Place().PlaceID, filter, st.Verified())
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []kilroy.Kilroy{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}

func (h *KilroysHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	st := h.buildState(r, sess)
	if st == nil {
		http.Error(w, "no place resolved", http.StatusConflict)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		http.Error(w, "please select an image file", http.StatusBadRequest)
		return
	}

	c := circle.Community
	if v := strings.TrimSpace(r.FormValue("circle")); v != "" {
		parsed, err := circle.Parse(v)
		if err != nil {
			http.Error(w, "invalid circle", http.StatusBadRequest)
			return
		}
		c = parsed
	}
	st.SetCircle(c)

	normalized, err := img.Normalize(file)
	if err != nil {
		if errors.Is(err, img.ErrNotImage) {
			http.Error(w, "please select an image file", http.StatusBadRequest)
			return
		}
		http.Error(w, "failed to create, please try again", http.StatusInternalServerError)
		return
	}

	k, err := h.Svc.Create(r.Context(), *st.Place(), normalized, r.FormValue("caption"), st.Circle(), st.Verified())
	if err != nil {
		http.Error(w, "failed to create, please try again", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(k)
}
