package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kilroy/internal/config"
	"kilroy/internal/http/handler"
	mw "kilroy/internal/http/middleware"
	"kilroy/internal/kilroy"
	"kilroy/internal/place"
	"kilroy/internal/session"
	"kilroy/internal/verify"
)

func NewRouter(cfg config.Config, tokens *session.Tokens, resolver *place.Resolver, svc *kilroy.Service, verifier verify.Verifier) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	if cfg.Blob.Backend == "filesystem" {
		fs := http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.Blob.MediaRoot)))
		r.Get("/media/*", fs.ServeHTTP)
	}

	sh := &handler.SessionHandler{Tokens: tokens}
	r.Post("/session", sh.Start)

	vh := &handler.VerifyHandler{Tokens: tokens, Verifier: verifier}
	lh := &handler.LocationHandler{Resolver: resolver, Svc: svc}
	kh := &handler.KilroysHandler{Svc: svc, Resolver: resolver}

	r.Group(func(r chi.Router) {
		r.Use(session.Require(tokens))

		r.Post("/verify", vh.Verify)
		r.Post("/location", lh.Update)

		r.Get("/kilroys", kh.List)
		r.Post("/kilroys", kh.Create)
	})

	return r
}
