package main

import (
	"log"
	"log/slog"
	"net/http"

	bootstrap "github.com/tbeaudouin05/stripe-gatekeeper/api/bootstrap"
	"github.com/tbeaudouin05/stripe-gatekeeper/api/config"
	"github.com/tbeaudouin05/stripe-gatekeeper/api/router"
)

func main() {
	// Missing secret key is fatal; missing price id or webhook secret only
	// degrades the affected endpoint.
	if err := bootstrap.Ensure(); err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	cfg := config.AppConfig
	if cfg.StripePriceID == "" {
		slog.Warn("STRIPE_PRICE_ID is not set; checkout requests must carry their own priceId")
	}
	if cfg.StripeWebhookSecret == "" {
		slog.Warn("STRIPE_WEBHOOK_SECRET is not set; webhook deliveries will fail signature verification")
	}

	addr := ":" + cfg.HTTPPort
	slog.Info("server listening", "addr", addr, "allowed_origin", cfg.FrontendURL, "duplicate_guard", cfg.DuplicateGuard)
	if err := http.ListenAndServe(addr, router.NewRouter()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
