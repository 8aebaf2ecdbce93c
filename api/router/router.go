package router

import (
	"log/slog"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"

	bootstrap "github.com/tbeaudouin05/stripe-gatekeeper/api/bootstrap"
	"github.com/tbeaudouin05/stripe-gatekeeper/api/config"
)

// NewRouter returns the central HTTP router for the API. Endpoints are
// registered directly on a grpc-gateway ServeMux via HandlePath; the mux is
// wrapped with CORS and request-logging middleware.
func NewRouter() http.Handler {
	// Initialize app dependencies (non-fatal if it fails here; handlers re-check).
	if err := bootstrap.Ensure(); err != nil {
		slog.Error("bootstrap ensure failed", "err", err)
	}

	mux := runtime.NewServeMux()
	register := func(method, path string, h runtime.HandlerFunc) {
		if err := mux.HandlePath(method, path, h); err != nil {
			slog.Error("failed to register route", "method", method, "path", path, "err", err)
		}
	}
	register(http.MethodPost, "/create-checkout-session", handleCreateCheckoutSession)
	register(http.MethodGet, "/verify-subscription", handleVerifySubscription)
	register(http.MethodPost, "/stripe-webhooks", handleStripeWebhooks)

	// httprule patterns need at least one segment, so the liveness root is
	// served ahead of the mux.
	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			handleHealth(w, r, nil)
			return
		}
		mux.ServeHTTP(w, r)
	})

	origin := config.DefaultFrontendURL
	if config.AppConfig != nil && config.AppConfig.FrontendURL != "" {
		origin = config.AppConfig.FrontendURL
	}
	return requestLogger(allowOrigin(root, origin))
}
