package app

import (
	"encoding/json"
	"fmt"
	"log/slog"

	stripe "github.com/stripe/stripe-go/v76"
)

// Lifecycle event kinds with dedicated observers. The enumeration is open:
// kinds without an entry are acknowledged and logged, never failed.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventInvoicePaid         = "invoice.payment_succeeded"
	EventInvoiceFailed       = "invoice.payment_failed"
	EventSubscriptionDeleted = "customer.subscription.deleted"
	EventSubscriptionUpdated = "customer.subscription.updated"
)

// EventObserver receives one authenticated lifecycle event. Observers must not
// mutate backend state: the backend retries deliveries and duplicate events
// must stay harmless (logging twice is fine).
type EventObserver func(event stripe.Event)

// ObserverMap routes event kinds to observers.
type ObserverMap map[string]EventObserver

// DefaultObservers logs each known kind with its external ids.
func DefaultObservers() ObserverMap {
	return ObserverMap{
		EventCheckoutCompleted:   observeCheckoutCompleted,
		EventInvoicePaid:         observeInvoice("invoice payment succeeded"),
		EventInvoiceFailed:       observeInvoice("invoice payment failed"),
		EventSubscriptionDeleted: observeSubscription("subscription deleted"),
		EventSubscriptionUpdated: observeSubscription("subscription updated"),
	}
}

// IngestLifecycleEvent authenticates and dispatches one webhook delivery.
// A nil return acknowledges the delivery; any error makes the backend retry it
// with backoff, so only authentication failures are surfaced.
func (s serviceImpl) IngestLifecycleEvent(payload []byte, sigHeader string) error {
	if s.settings.WebhookSecret == "" {
		return fmt.Errorf("%w: webhook secret is not configured", ErrUnauthenticated)
	}
	if sigHeader == "" {
		return fmt.Errorf("%w: missing signature header", ErrUnauthenticated)
	}

	event, err := s.gw.VerifyEvent(payload, sigHeader, s.settings.WebhookSecret)
	if err != nil {
		return fmt.Errorf("%w: signature verification failed: %v", ErrUnauthenticated, err)
	}

	kind := string(event.Type)
	observer, ok := s.observers[kind]
	if !ok {
		slog.Info("unhandled webhook event", "event_id", event.ID, "kind", kind)
		return nil
	}
	observer(event)
	return nil
}

// eventObject decodes the event payload into v. Decode failures on an
// authenticated event are logged and swallowed: dispatch is fire-and-forget
// and the delivery still gets acknowledged.
func eventObject(event stripe.Event, v any) bool {
	if event.Data == nil {
		slog.Error("webhook event carries no payload", "event_id", event.ID, "kind", string(event.Type))
		return false
	}
	if err := json.Unmarshal(event.Data.Raw, v); err != nil {
		slog.Error("failed to decode webhook payload", "event_id", event.ID, "kind", string(event.Type), "err", err)
		return false
	}
	return true
}

func observeCheckoutCompleted(event stripe.Event) {
	var sess stripe.CheckoutSession
	if !eventObject(event, &sess) {
		return
	}
	customerID, subscriptionID := "", ""
	if sess.Customer != nil {
		customerID = sess.Customer.ID
	}
	if sess.Subscription != nil {
		subscriptionID = sess.Subscription.ID
	}
	slog.Info("checkout session completed",
		"event_id", event.ID,
		"session_id", sess.ID,
		"customer_id", customerID,
		"subscription_id", subscriptionID)
}

func observeInvoice(msg string) EventObserver {
	return func(event stripe.Event) {
		var inv stripe.Invoice
		if !eventObject(event, &inv) {
			return
		}
		customerID, subscriptionID := "", ""
		if inv.Customer != nil {
			customerID = inv.Customer.ID
		}
		if inv.Subscription != nil {
			subscriptionID = inv.Subscription.ID
		}
		slog.Info(msg,
			"event_id", event.ID,
			"invoice_id", inv.ID,
			"customer_id", customerID,
			"subscription_id", subscriptionID)
	}
}

func observeSubscription(msg string) EventObserver {
	return func(event stripe.Event) {
		var sub stripe.Subscription
		if !eventObject(event, &sub) {
			return
		}
		customerID := ""
		if sub.Customer != nil {
			customerID = sub.Customer.ID
		}
		slog.Info(msg,
			"event_id", event.ID,
			"subscription_id", sub.ID,
			"customer_id", customerID,
			"status", string(sub.Status))
	}
}
