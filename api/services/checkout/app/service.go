package app

import (
	"github.com/go-playground/validator/v10"

	gw "github.com/tbeaudouin05/stripe-gatekeeper/api/services/checkout/gateway"
)

// Service defines the business operations of the subscription gatekeeper.
// All state lives in the payment backend; every operation re-derives its facts
// through the gateway, so the service itself is stateless and safe to share.
type Service interface {
	InitiateCheckout(planID string, email string) (CheckoutResult, error)
	VerifyCheckout(sessionToken string) (VerifyResult, error)
	IngestLifecycleEvent(payload []byte, sigHeader string) error
}

// serviceImpl is a concrete implementation.
type serviceImpl struct {
	gw        gw.PaymentGateway
	settings  Settings
	observers ObserverMap
}

var validate = validator.New()

// NewService wires the gatekeeper with the default logging observers.
func NewService(g gw.PaymentGateway, settings Settings) Service {
	return NewServiceWithObservers(g, settings, DefaultObservers())
}

// NewServiceWithObservers allows tests or an embedding application to replace
// the per-kind lifecycle observers.
func NewServiceWithObservers(g gw.PaymentGateway, settings Settings, observers ObserverMap) Service {
	if settings.Guard == "" {
		settings.Guard = GuardPlan
	}
	return serviceImpl{gw: g, settings: settings, observers: observers}
}
