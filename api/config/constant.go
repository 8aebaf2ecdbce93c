package config

import (
	"log"
	"strings"
)

const (
	// LiveKeyPrefix identifies a live-mode Stripe secret key
	LiveKeyPrefix = "sk_live_"

	// DefaultFrontendURL is the fallback CORS origin and redirect base
	DefaultFrontendURL = "http://localhost:3000"

	// DefaultDuplicateGuard is the plan-scoped duplicate-subscription policy
	DefaultDuplicateGuard = "plan"
)

// CheckNotLiveMode aborts immediately if the configured Stripe key is a
// live-mode key. This should be called at the start of any test that talks to
// the Stripe API.
func CheckNotLiveMode() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.StripeSecretKey == "" {
		log.Fatal("StripeSecretKey is not configured")
	}
	if strings.HasPrefix(cfg.StripeSecretKey, LiveKeyPrefix) {
		log.Fatalf("Tests aborted: StripeSecretKey is a live-mode key (%s...)", LiveKeyPrefix)
	}
}
