package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string

	// Places/geocoding provider. Empty API key is a valid mode: the
	// resolver falls through to the coordinate tier.
	PlacesAPIKey  string
	PlacesBaseURL string

	// Empty RedisURL means the in-process place cache.
	RedisURL string

	Blob   Blob
	Verify Verify
}

// Blob selects and configures the blob storage backend.
type Blob struct {
	Backend string // s3 | filesystem | memory

	MediaRoot    string
	MediaBaseURL string

	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3PublicBaseURL string
	S3AccessKey     string
	S3SecretKey     string
}

// Verify configures the identity-verification provider. Empty AppID
// switches the client to the development bypass.
type Verify struct {
	AppID   string
	BaseURL string
	Action  string
	Level   string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          mustGetenv("DATABASE_URL"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",

		PlacesAPIKey:  getenv("PLACES_API_KEY", ""),
		PlacesBaseURL: getenv("PLACES_BASE_URL", "https://maps.googleapis.com"),

		RedisURL: getenv("REDIS_URL", ""),

		Blob: Blob{
			Backend:         getenv("BLOB_BACKEND", "filesystem"),
			MediaRoot:       getenv("MEDIA_ROOT", "./media"),
			MediaBaseURL:    getenv("MEDIA_BASE_URL", "http://localhost:8080/media"),
			S3Bucket:        getenv("S3_BUCKET", ""),
			S3Region:        getenv("S3_REGION", "us-east-1"),
			S3Endpoint:      getenv("S3_ENDPOINT", ""),
			S3PublicBaseURL: getenv("S3_PUBLIC_BASE_URL", ""),
			S3AccessKey:     getenv("S3_ACCESS_KEY", ""),
			S3SecretKey:     getenv("S3_SECRET_KEY", ""),
		},

		Verify: Verify{
			AppID:   getenv("VERIFY_APP_ID", ""),
			BaseURL: getenv("VERIFY_BASE_URL", "https://developer.worldcoin.org"),
			Action:  getenv("VERIFY_ACTION", "kilroy-verify"),
			Level:   getenv("VERIFY_LEVEL", "orb"),
		},
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	cfg.JWTSecret = mustGetenv("JWT_SECRET")
	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}
