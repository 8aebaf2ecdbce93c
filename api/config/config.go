package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/joho/godotenv"
)

// AppConfig holds the global application configuration
var AppConfig *Config

// Config holds the application configuration. It is read once at startup and
// injected into the service layer; handlers never read the environment.
type Config struct {
	StripeSecretKey     string
	StripeWebhookSecret string
	// StripePriceID is the default price used when a checkout request does not
	// name one. Optional; without it requests must carry their own priceId.
	StripePriceID string
	// FrontendURL is the allowed CORS origin and the base for the checkout
	// redirect targets.
	FrontendURL string
	// DuplicateGuard selects the duplicate-subscription policy: "plan" or
	// "instrument".
	DuplicateGuard string
	// Optional: base URL for running remote HTTP integration tests (e.g., https://api.example.com)
	IntegrationBaseURL string
	HTTPPort           string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{}

	// Try to load .env file from current directory and parent directories
	currentDir, _ := os.Getwd()
	for currentDir != "/" {
		// Check if .env file exists in current directory
		envPath := filepath.Join(currentDir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// Load .env file
			err = godotenv.Load(envPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load .env file: %v", err)
			}
			break
		}
		// Move up one directory
		currentDir = filepath.Dir(currentDir)
	}

	// Get required environment variables
	requiredVars := []struct {
		name     string
		envVar   string
		display  string
		required bool
	}{
		{"StripeSecretKey", "STRIPE_SECRET_KEY", "Stripe Secret Key", true},
		// Missing webhook secret or price ID only degrades the affected
		// endpoint; the server still starts.
		{"StripeWebhookSecret", "STRIPE_WEBHOOK_SECRET", "Stripe Webhook Secret", false},
		{"StripePriceID", "STRIPE_PRICE_ID", "Stripe Price ID", false},
		{"FrontendURL", "FRONTEND_URL", "Frontend URL", false},
		{"DuplicateGuard", "DUPLICATE_GUARD", "Duplicate Guard Policy", false},
		// Optional integration base URL for remote tests
		{"IntegrationBaseURL", "INTEGRATION_BASE_URL", "Integration Base URL", false},
		{"HTTPPort", "PORT", "HTTP Port", false},
	}

	for _, v := range requiredVars {
		value := os.Getenv(v.envVar)
		if v.required && value == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", v.display)
		}
		configField := reflect.ValueOf(config).Elem().FieldByName(v.name)
		configField.SetString(value)
	}

	// Defaults
	if config.FrontendURL == "" {
		config.FrontendURL = DefaultFrontendURL
	}
	if config.DuplicateGuard == "" {
		config.DuplicateGuard = DefaultDuplicateGuard
	}
	if config.HTTPPort == "" {
		config.HTTPPort = "3001"
	}

	return config, nil
}
