// backend/src/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds every runtime setting the server reads from the
// environment. Loaded once at startup into the global Cfg.
type AppConfig struct {
	Port                  string
	Env                   string
	LogLevel              string
	DatabasePath          string
	MigrationsPath        string
	JWTSecret             string
	JWTExpiration         time.Duration
	CSRFAuthKey           string
	FrontendBaseURL       string
	MaxUploadSizeBytes    int64
	SchemaCataloguePath   string
	FuturesMultiplierPath string
	DefaultTimezone       string
	DefaultInitialBalance float64
	ReportCacheTTL        time.Duration
	RateLimitRPS          float64
	RateLimitBurst        int
}

// Cfg is the loaded application configuration.
var Cfg AppConfig

// LoadConfig reads .env (if present) and the environment into Cfg.
// Missing required values are fatal; everything else has a default.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	Cfg = AppConfig{
		Port:                  getEnv("PORT", "8080"),
		Env:                   getEnv("GO_ENV", "DEV"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		DatabasePath:          getEnv("DATABASE_PATH", "./tradejournal.db"),
		MigrationsPath:        getEnv("MIGRATIONS_PATH", "db/migrations"),
		JWTSecret:             getRequiredEnv("JWT_SECRET"),
		JWTExpiration:         getEnvAsDuration("JWT_EXPIRATION", 24*time.Hour),
		CSRFAuthKey:           getEnv("CSRF_AUTH_KEY", ""),
		FrontendBaseURL:       getEnv("FRONTEND_BASE_URL", "http://localhost:3000"),
		MaxUploadSizeBytes:    getEnvAsInt64("MAX_UPLOAD_SIZE_BYTES", 5*1024*1024),
		SchemaCataloguePath:   getEnv("SCHEMA_CATALOGUE_PATH", ""),
		FuturesMultiplierPath: getEnv("FUTURES_MULTIPLIERS_PATH", ""),
		DefaultTimezone:       getEnv("DEFAULT_TIMEZONE", "America/New_York"),
		DefaultInitialBalance: getEnvAsFloat("DEFAULT_INITIAL_BALANCE", 10000),
		ReportCacheTTL:        getEnvAsDuration("REPORT_CACHE_TTL", 10*time.Second),
		RateLimitRPS:          getEnvAsFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:        getEnvAsInt("RATE_LIMIT_BURST", 40),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getRequiredEnv(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		log.Fatalf("FATAL: Required environment variable %s is not set", key)
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("WARN: Invalid integer for %s, using default %d", key, fallback)
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
		log.Printf("WARN: Invalid integer for %s, using default %d", key, fallback)
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
		log.Printf("WARN: Invalid number for %s, using default %v", key, fallback)
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		log.Printf("WARN: Invalid duration for %s, using default %s", key, fallback)
	}
	return fallback
}
