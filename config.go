package main

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries everything the service reads from the environment. A .env
// file is honored in development; real deployments set the variables
// directly.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   []byte

	// RandomFactor controls how much of the ranked recommendation list is
	// reshuffled per request (0 = fully deterministic, 1 = only the top
	// result is pinned).
	RandomFactor float64

	// PoolLimit bounds the candidate pool per request so recommendation
	// latency stays proportional to it.
	PoolLimit int
}

func loadConfig() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env file")
	}

	cfg := Config{
		Port:         envOr("PORT", "8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RandomFactor: envFloatOr("RANDOM_FACTOR", 0.3),
		PoolLimit:    envIntOr("POOL_LIMIT", 200),
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "your_secret_key_please_change_in_production"
		log.Println("Warning: JWT_SECRET not set, using development fallback")
	}
	cfg.JWTSecret = []byte(secret)

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "user=admin password=password dbname=kindreddb sslmode=disable"
		log.Println("Warning: DATABASE_URL not set, using default connection string")
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		log.Printf("Warning: invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return n
}
