package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. It is built once at
// startup and passed by reference; nothing reads the environment after that.
type Config struct {
	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Environment  string

	// MongoDB
	MongoURI string
	MongoDB  string

	// Auth
	JWTSecret string
	JWTExpiry time.Duration

	// Trip creation: when true, referenced vehicle/driver/booking ids must
	// exist; when false they are linked without being checked.
	StrictReferences bool

	// Rate limiting on the public auth endpoints
	RateLimitRequests int
	RateLimitWindow   int
}

// Load loads configuration from environment variables, with a .env file as
// fallback for local development.
func Load() *Config {
	godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,
		Environment:  getEnv("APP_ENV", "development"),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "cargo"),

		JWTSecret: getEnv("JWT_SECRET", "default-secret-key-change-in-production"),
		JWTExpiry: getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),

		StrictReferences: getEnvAsBool("STRICT_REFERENCES", false),

		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 30),
		RateLimitWindow:   getEnvAsInt("RATE_LIMIT_WINDOW", 60),
	}
}

// IsDevelopment reports whether detailed error messages may be exposed
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
