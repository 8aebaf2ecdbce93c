package router

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	bootstrap "github.com/tbeaudouin05/stripe-gatekeeper/api/bootstrap"
	"github.com/tbeaudouin05/stripe-gatekeeper/api/config"
	app "github.com/tbeaudouin05/stripe-gatekeeper/api/services/checkout/app"
)

// handleHealth is the basic liveness probe.
func handleHealth(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Subscription Gatekeeper is running!"))
}

type createCheckoutSessionRequest struct {
	PriceID string `json:"priceId"`
	Email   string `json:"email"`
}

func handleCreateCheckoutSession(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req createCheckoutSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Request body must be valid JSON.")
		return
	}
	// The original deployment configured a single product; requests may omit
	// priceId and fall back to it.
	if req.PriceID == "" && config.AppConfig != nil {
		req.PriceID = config.AppConfig.StripePriceID
	}

	res, err := bootstrap.GetCheckoutService().InitiateCheckout(req.PriceID, req.Email)
	if err != nil {
		slog.Error("create checkout session failed", "email", req.Email, "err", err)
		writeErrorMessage(w, statusFor(err), app.PublicMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": res.SessionID})
}

func handleVerifySubscription(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	sessionID := r.URL.Query().Get("session_id")
	res, err := bootstrap.GetCheckoutService().VerifyCheckout(sessionID)
	if err != nil {
		slog.Error("verify subscription failed", "session_id", sessionID, "err", err)
		writeJSON(w, statusFor(err), map[string]any{"success": false, "error": app.PublicMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Subscription successfully verified!",
		"data":    res,
	})
}

// handleStripeWebhooks hands the raw body to the service; the signature covers
// the exact bytes, so nothing may decode them first.
func handleStripeWebhooks(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Webhook Error: failed to read body.", http.StatusBadRequest)
		return
	}
	sig := r.Header.Get("Stripe-Signature")
	if err := bootstrap.GetCheckoutService().IngestLifecycleEvent(payload, sig); err != nil {
		slog.Error("webhook delivery rejected", "err", err)
		http.Error(w, app.PublicMessage(err), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// statusFor maps app-layer sentinel errors to HTTP status codes. Everything
// the caller can fix is 400; upstream failures are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, app.ErrInvalidArgument),
		errors.Is(err, app.ErrDuplicateSubscription),
		errors.Is(err, app.ErrPaymentIncomplete),
		errors.Is(err, app.ErrUnauthenticated):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": map[string]string{"message": msg}})
}
