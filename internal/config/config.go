// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"walletpay/pkg/db"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string
	DB         db.Config

	// Simulated external authorizer knobs. Replaced by real network
	// configuration once actual card/mobile-money integrations exist.
	CardApprovalRate   float64
	MobileApprovalRate float64
	AuthorizerTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables, with an
// optional .env file for local development. It returns an AppConfig
// instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	// Missing .env is fine: in deployed environments everything comes from
	// real environment variables.
	_ = godotenv.Load()

	cfg := &AppConfig{
		ServerPort: envOrDefault("SERVER_PORT", "8080"),
		DB: db.Config{
			Host:     envOrDefault("DB_HOST", "localhost"),
			User:     envOrDefault("DB_USER", "user"),
			Password: envOrDefault("DB_PASSWORD", "password"),
			DBName:   envOrDefault("DB_NAME", "walletpaydb"),
			SSLMode:  envOrDefault("DB_SSLMODE", "disable"),
		},
	}

	dbPort, err := strconv.Atoi(envOrDefault("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.DB.Port = dbPort

	cfg.CardApprovalRate, err = parseRate("CARD_APPROVAL_RATE", "0.95")
	if err != nil {
		return nil, err
	}
	cfg.MobileApprovalRate, err = parseRate("MOBILE_APPROVAL_RATE", "0.90")
	if err != nil {
		return nil, err
	}

	cfg.AuthorizerTimeout, err = time.ParseDuration(envOrDefault("AUTHORIZER_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTHORIZER_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// envOrDefault returns the environment variable value or a fallback.
func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseRate reads a probability in [0, 1] from the environment.
func parseRate(key, fallback string) (float64, error) {
	rate, err := strconv.ParseFloat(envOrDefault(key, fallback), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if rate < 0 || rate > 1 {
		return 0, fmt.Errorf("invalid %s: must be between 0 and 1, got %v", key, rate)
	}
	return rate, nil
}
