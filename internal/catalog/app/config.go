package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer    string // Issuer claim for access tokens (default: discograph)
	JWTSecret string // Required: HS256 signing secret, at least 32 bytes

	DatabaseFile string // Path to SQLite database file (default: ./catalog.db)

	AccessTokenTTL  time.Duration // Access token lifetime (default: 5m)
	RefreshTokenTTL time.Duration // Refresh token lifetime (default: 168h)

	LoginRateCapacity int           // Login attempts per window per key (default: 10)
	LoginRateWindow   time.Duration // Login gate window (default: 1m)
	UserRateCapacity  int           // Requests per window per identity (default: 10)
	UserRateWindow    time.Duration // Per-identity gate window (default: 1m)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired token purge interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:    getEnvOrDefault("CATALOG_ISSUER", "discograph"),
		JWTSecret: os.Getenv("CATALOG_JWT_SECRET"),

		DatabaseFile: getEnvOrDefault("CATALOG_DATABASE_FILE", "catalog.db"),

		AccessTokenTTL:  getEnvDurationOrDefault("CATALOG_ACCESS_TOKEN_TTL", 5*time.Minute),
		RefreshTokenTTL: getEnvDurationOrDefault("CATALOG_REFRESH_TOKEN_TTL", 7*24*time.Hour),

		LoginRateCapacity: getEnvIntOrDefault("RATELIMIT_LOGIN_CAPACITY", 10),
		LoginRateWindow:   getEnvDurationOrDefault("RATELIMIT_LOGIN_WINDOW", time.Minute),
		UserRateCapacity:  getEnvIntOrDefault("RATELIMIT_USER_CAPACITY", 10),
		UserRateWindow:    getEnvDurationOrDefault("RATELIMIT_USER_WINDOW", time.Minute),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}
