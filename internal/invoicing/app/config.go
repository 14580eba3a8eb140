package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BaseURL       string // Public base URL used to build the Connect redirect_uri
	SessionSecret string // Required: HMAC secret for session tokens
	SessionTTL    time.Duration

	StripeSecretKey  string // Required: platform secret key for charges and the code exchange
	StripeClientID   string // Required: Connect application client id
	StripeAPIURL     string // Optional override, used by tests and stripe-mock
	StripeConnectURL string // Optional override for the Connect OAuth host

	DatabaseFile        string        // Path to the SQLite database file (default: ./invoices.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 3000)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	// A missing .env is fine; production sets real env vars.
	_ = godotenv.Load()

	cfg := Config{
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		SessionTTL:       getEnvDurationOrDefault("SESSION_TTL", 24*time.Hour),
		StripeSecretKey:  os.Getenv("STRIPE_SECRET_KEY"),
		StripeClientID:   os.Getenv("STRIPE_CLIENT_ID"),
		StripeAPIURL:     os.Getenv("STRIPE_API_URL"),
		StripeConnectURL: os.Getenv("STRIPE_CONNECT_URL"),

		DatabaseFile:        getEnvOrDefault("DATABASE_FILE", "invoices.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 3000),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	cfg.BaseURL = getEnvOrDefault("BASE_URL", "http://localhost:"+strconv.Itoa(cfg.Port))

	return cfg
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
