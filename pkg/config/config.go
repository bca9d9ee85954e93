package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the process needs, loaded once in main and passed
// by reference. No package keeps a cached global copy.
type Config struct {
	Environment string
	Port        string

	// Storage. Memory mode is for local development and tests.
	PostgresDSN    string
	UseMemoryStore bool

	// Tokens.
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// CORS.
	AllowedOrigins []string

	LogLevel string
	Debug    bool
}

// Load reads configuration from the environment, with .env files layered in
// for local development.
func Load() (*Config, error) {
	env := getEnv("ENVIRONMENT", "development")
	// Missing files are fine; real env vars win over file contents.
	_ = godotenv.Load(".env." + env)
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment:     getEnv("ENVIRONMENT", "development"),
		Port:            getEnv("PORT", "8080"),
		PostgresDSN:     strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		UseMemoryStore:  getEnvBool("USE_MEMORY_STORE", false),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 30*time.Minute),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Debug:           getEnvBool("DEBUG", false),
	}

	origins := getEnv("ALLOWED_ORIGINS", "*")
	if origins == "*" {
		cfg.AllowedOrigins = []string{"*"}
	} else {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	}

	if cfg.IsProduction() {
		cfg.Debug = false
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.IsProduction() {
		if c.JWTSecret == "" || c.JWTSecret == "dev-secret-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.UseMemoryStore {
			return fmt.Errorf("USE_MEMORY_STORE is not allowed in production")
		}
	}
	if !c.UseMemoryStore && c.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required unless USE_MEMORY_STORE=true")
	}
	return nil
}

// IsProduction reports whether the environment is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment reports whether the environment is development.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
