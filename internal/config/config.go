// Package config handles loading and validation of application configuration
// from environment variables. Supports .env files via godotenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devSecret = "dev-secret-change-in-production"

// Config holds all application configuration
type Config struct {
	// Server settings
	Port        int
	Environment string // "development" | "staging" | "production"
	LogLevel    string

	// Security
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string
	RateLimitRPM   int

	// Redis (for rate limiting); empty keeps the limiter in memory
	RedisURL string

	// Hostel data
	SeedFile         string
	EnforceSpecialty bool
	TicketAttempts   int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		JWTSecret:      getEnv("JWT_SECRET", devSecret),
		TokenTTL:       time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 720)) * time.Minute,
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		RateLimitRPM:   getEnvInt("RATE_LIMIT_RPM", 120),

		RedisURL: getEnv("REDIS_URL", ""),

		SeedFile:         getEnv("SEED_FILE", ""),
		EnforceSpecialty: getEnvBool("ENFORCE_SPECIALTY", false),
		TicketAttempts:   getEnvInt("TICKET_ATTEMPTS", 64),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and the production-only requirements
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL_MINUTES must be positive")
	}
	if c.RateLimitRPM <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPM must be positive")
	}
	if c.TicketAttempts <= 0 {
		return fmt.Errorf("TICKET_ATTEMPTS must be positive")
	}

	// Validate required fields in production
	if c.Environment == "production" && c.JWTSecret == devSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

// IsDevelopment reports whether the server runs with development defaults
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
