package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read once at startup. Defaults suit
// local development against the mock source and a sqlite file.
type Config struct {
	Port        string
	DatabaseDSN string

	// UseShopifyAPI selects the live Admin API client; false selects the
	// deterministic mock generator.
	UseShopifyAPI     bool
	ShopifyAPIVersion string
	ListTimeout       time.Duration
	ProbeTimeout      time.Duration

	JWTSecret string
	TokenTTL  time.Duration

	// RedisAddr enables the dashboard snapshot cache; empty disables it.
	RedisAddr     string
	RedisPassword string
	SnapshotTTL   time.Duration

	CORSAllowedOrigins []string
}

// Load reads the environment into a Config. A missing .env file is not an
// error; a missing JWT secret is.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8000"),
		DatabaseDSN:        getEnv("DATABASE_URL", "xeno.db"),
		UseShopifyAPI:      getEnvBool("USE_SHOPIFY_API", false),
		ShopifyAPIVersion:  getEnv("SHOPIFY_API_VERSION", "2023-10"),
		ListTimeout:        getEnvDuration("SHOPIFY_LIST_TIMEOUT", 30*time.Second),
		ProbeTimeout:       getEnvDuration("SHOPIFY_PROBE_TIMEOUT", 10*time.Second),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenTTL:           getEnvDuration("TOKEN_TTL", 24*time.Hour),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		SnapshotTTL:        getEnvDuration("SNAPSHOT_CACHE_TTL", 5*time.Minute),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
