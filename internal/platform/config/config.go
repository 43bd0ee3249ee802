package config

import (
	"os"
	"time"
)

// Server captures process-level configuration. Empty DatabaseURL or RedisURL
// selects the in-memory implementations so the binary runs standalone in
// development.
type Server struct {
	Addr          string
	DatabaseURL   string
	RedisURL      string
	JWTSigningKey string
	JWTIssuer     string
	TokenTTL      time.Duration

	// ProgressCacheTTL bounds staleness of cached project rollups.
	ProgressCacheTTL time.Duration

	// Bootstrap admin seeded into the identity store on startup.
	SeedAdminEmail    string
	SeedAdminPassword string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:              getenv("SIMONEV_ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		JWTSigningKey:     getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:         getenv("JWT_ISSUER", "simonev"),
		TokenTTL:          getdur("TOKEN_TTL", time.Hour),
		ProgressCacheTTL:  getdur("PROGRESS_CACHE_TTL", 5*time.Minute),
		SeedAdminEmail:    getenv("SEED_ADMIN_EMAIL", "admin@simonev.go.id"),
		SeedAdminPassword: getenv("SEED_ADMIN_PASSWORD", "admin-dev-password"),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getdur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
