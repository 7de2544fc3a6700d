package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Local persistence
	DataPath    string
	StoragePath string

	// JWT
	JWTSecret string

	// Remote status service
	APIBaseURL string

	// Redis (optional; in-memory cache when empty)
	RedisURL string

	// Live feed
	FeedRefreshSeconds int

	// Seed account
	SeedPassword string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		Env:                getEnvOrDefault("ENV", "development"),
		DataPath:           getEnvOrDefault("DATA_PATH", "./data/portal.db"),
		StoragePath:        getEnvOrDefault("STORAGE_PATH", "./uploads"),
		JWTSecret:          mustGetEnv("JWT_SECRET"),
		APIBaseURL:         getEnvOrDefault("API_BASE_URL", "http://localhost:5000/api"),
		RedisURL:           getEnvOrDefault("REDIS_URL", ""),
		FeedRefreshSeconds: getEnvAsIntOrDefault("FEED_REFRESH_SECONDS", 45),
		SeedPassword:       getEnvOrDefault("SEED_PASSWORD", "sarat erripuku"),
		FrontendURL:        getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
