package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabaseURL   string
	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	GeminiAPIKey string
	GeminiBase   string
	GeminiModel  string

	RedisAddr       string
	RedisPassword   string
	CacheTTLMinutes int

	MaxUploadMB int
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change"),
		JWTIssuer:     getEnv("JWT_ISSUER", "interview-service"),
		JWTTTLMinutes: getEnvInt("JWT_TTL_MINUTES", 60),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiBase:   os.Getenv("GEMINI_BASE_URL"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		CacheTTLMinutes: getEnvInt("CACHE_TTL_MINUTES", 30),

		MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 10),
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
