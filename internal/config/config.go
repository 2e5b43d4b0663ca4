package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	Env         string
	FrontendURL string

	// Gemini AI
	GeminiAPIKey     string
	GeminiModels     []string
	GeminiTimeoutSec int

	// Profile document
	ProfilePath        string
	ProfileCacheTTLSec int

	// Optional infrastructure
	DatabaseURL string
	RedisURL    string

	// Admin
	AdminJWTSecret string

	// Rate limiting
	ChatRequestsPerMin int
}

// Candidate models tried in priority order when GEMINI_MODELS is unset.
const defaultModels = "gemini-2.0-flash,gemini-1.5-flash,gemini-1.5-flash-8b"

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),

		// A missing key is surfaced as a 500 on the chat endpoint, not a
		// startup failure, so the rest of the service stays reachable.
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModels:     getEnvAsListOrDefault("GEMINI_MODELS", defaultModels),
		GeminiTimeoutSec: getEnvAsIntOrDefault("GEMINI_TIMEOUT_SECONDS", 30),

		ProfilePath:        getEnvOrDefault("PROFILE_PATH", "./profile.json"),
		ProfileCacheTTLSec: getEnvAsIntOrDefault("PROFILE_CACHE_TTL_SECONDS", 0),

		// Both optional: without them the service runs as a pure relay.
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		AdminJWTSecret: os.Getenv("ADMIN_JWT_SECRET"),

		ChatRequestsPerMin: getEnvAsIntOrDefault("CHAT_REQUESTS_PER_MINUTE", 20),
	}

	return cfg
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

// getEnvAsListOrDefault parses a comma-separated value, dropping empty
// entries and surrounding whitespace.
func getEnvAsListOrDefault(key, defaultVal string) []string {
	val := os.Getenv(key)
	if val == "" {
		val = defaultVal
	}

	var items []string
	for _, item := range strings.Split(val, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
