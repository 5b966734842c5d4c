package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "dev"
	EnvProduction  = "prod"

	DefaultAPIBaseURL = "https://frontend-test-assignment-api.abz.agency/api/v1"
)

// Config holds all application configuration loaded from environment.
type Config struct {
	AppEnv       string
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string
	LogLevel     string

	APIBaseURL    string
	APITimeout    time.Duration
	UsersPageSize int

	SessionSecret        string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	SessionMax           int
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{}

	// Application environment (default: dev)
	cfg.AppEnv = getEnv("APP_ENV", EnvDevelopment)
	if cfg.AppEnv != EnvDevelopment && cfg.AppEnv != EnvProduction {
		return nil, fmt.Errorf("invalid APP_ENV %q: expected %q or %q", cfg.AppEnv, EnvDevelopment, EnvProduction)
	}
	cfg.IsProduction = cfg.AppEnv == EnvProduction

	// Production origins for CORS (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	cfg.APIBaseURL = getEnv("API_BASE_URL", DefaultAPIBaseURL)
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL must not be empty")
	}

	var err error
	cfg.APITimeout, err = getEnvAsDuration("API_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid API_TIMEOUT: %w", err)
	}

	cfg.UsersPageSize, err = getEnvAsInt("USERS_PAGE_SIZE", 6)
	if err != nil {
		return nil, fmt.Errorf("invalid USERS_PAGE_SIZE: %w", err)
	}
	if cfg.UsersPageSize < 1 || cfg.UsersPageSize > 100 {
		return nil, fmt.Errorf("USERS_PAGE_SIZE must be between 1 and 100, got %d", cfg.UsersPageSize)
	}

	// Session secret is required for signing the session cookie
	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	cfg.SessionTTL, err = getEnvAsDuration("SESSION_TTL", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	cfg.SessionSweepInterval, err = getEnvAsDuration("SESSION_SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_SWEEP_INTERVAL: %w", err)
	}

	cfg.SessionMax, err = getEnvAsInt("SESSION_MAX", 10000)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_MAX: %w", err)
	}
	if cfg.SessionMax < 1 {
		return nil, fmt.Errorf("SESSION_MAX must be positive, got %d", cfg.SessionMax)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsDuration parses a time.Duration such as "15m" or "1h".
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid duration: %w", key, valStr, err)
	}
	if val <= 0 {
		return 0, fmt.Errorf("env %s must be positive, got %s", key, val)
	}

	return val, nil
}
