package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kilroy/internal/blob"
	"kilroy/internal/config"
	"kilroy/internal/db"
	httpx "kilroy/internal/http"
	"kilroy/internal/kilroy"
	"kilroy/internal/place"
	"kilroy/internal/session"
	"kilroy/internal/verify"
)

func main() {
	cfg, _ := config.Load()

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Fatal(err)
	}

	cache, err := newPlaceCache(cfg)
	if err != nil {
		log.Fatal(err)
	}
	resolver := place.NewResolver(cache, place.NewHTTPProvider(cfg.PlacesBaseURL, cfg.PlacesAPIKey))

	blobs, err := blob.NewFromConfig(cfg.Blob)
	if err != nil {
		log.Fatal(err)
	}

	svc := &kilroy.Service{Store: &kilroy.PostgresStore{DB: gdb}, Blobs: blobs}
	tokens := session.NewTokens(cfg.JWTSecret)
	verifier := verify.New(cfg.Verify)

	r := httpx.NewRouter(cfg, tokens, resolver, svc, verifier)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s\n", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}

func newPlaceCache(cfg config.Config) (place.Cache, error) {
	if cfg.RedisURL == "" {
		return place.NewMemoryCache(), nil
	}
	return place.NewRedisCache(cfg.RedisURL, 24*time.Hour)
}
