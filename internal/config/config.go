// Package config loads service configuration from the environment, with a
// .env file honored in development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	Host string
	Port int

	// AI classification
	AIAPIKey  string
	AIBaseURL string
	AIModel   string

	// Auth
	JWTSecret      string
	AccessTokenTTL time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads the environment into a Config. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := getEnvInt("PORT", 8000)
	if err != nil {
		return nil, err
	}
	ttlMinutes, err := getEnvInt("ACCESS_TOKEN_TTL_MINUTES", 60*24)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Host:           getEnv("HOST", "0.0.0.0"),
		Port:           port,
		AIAPIKey:       getEnv("AI_API_KEY", ""),
		AIBaseURL:      getEnv("AI_BASE_URL", ""),
		AIModel:        getEnv("AI_MODEL", ""),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		AccessTokenTTL: time.Duration(ttlMinutes) * time.Minute,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// validate enforces what the service cannot run without. The AI key is
// deliberately optional: without it the classifier falls back to manual
// review suggestions.
func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return parsed, nil
}
