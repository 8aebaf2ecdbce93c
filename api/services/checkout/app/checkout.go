package app

import (
	"fmt"
	"log/slog"

	stripe "github.com/stripe/stripe-go/v76"

	gw "github.com/tbeaudouin05/stripe-gatekeeper/api/services/checkout/gateway"
)

// checkoutInput is validated locally before any gateway call is made.
type checkoutInput struct {
	PlanID string `validate:"required"`
	Email  string `validate:"required,email"`
}

// InitiateCheckout reconciles a customer identity for the email, applies the
// configured duplicate-subscription guard, and creates a hosted checkout
// session for the plan. On ErrDuplicateSubscription under the instrument
// policy a backend session may already exist; callers must discard the token.
func (s serviceImpl) InitiateCheckout(planID string, email string) (CheckoutResult, error) {
	if err := validate.Struct(checkoutInput{PlanID: planID, Email: email}); err != nil {
		return CheckoutResult{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	cust, err := s.reconcileCustomer(email)
	if err != nil {
		return CheckoutResult{}, err
	}

	if s.settings.Guard == GuardPlan {
		blocked, err := s.hasLiveSubscriptionOnPlan(cust.ID, planID)
		if err != nil {
			return CheckoutResult{}, err
		}
		if blocked {
			return CheckoutResult{}, fmt.Errorf("%w: customer %s already has a live subscription on %s", ErrDuplicateSubscription, cust.ID, planID)
		}
	}

	sess, err := s.gw.CreateCheckoutSession(gw.CheckoutSessionParams{
		CustomerID: cust.ID,
		PriceID:    planID,
		SuccessURL: fmt.Sprintf(successURLFormat, s.settings.FrontendURL),
		CancelURL:  fmt.Sprintf(cancelURLFormat, s.settings.FrontendURL),
	})
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("%w: creating checkout session: %w", ErrUpstream, err)
	}

	if s.settings.Guard == GuardInstrument {
		if err := s.guardInstrument(cust.ID, sess); err != nil {
			return CheckoutResult{}, err
		}
	}

	slog.Info("checkout session created", "session_id", sess.ID, "customer_id", cust.ID, "price_id", planID)
	return CheckoutResult{SessionID: sess.ID}, nil
}

// reconcileCustomer resolves the email to a customer record, creating one when
// absent. When multiple records share an email the first in the backend's
// listing order wins; the gatekeeper does not resolve that ambiguity.
func (s serviceImpl) reconcileCustomer(email string) (stripe.Customer, error) {
	custs, err := s.gw.ListCustomersByEmail(email)
	if err != nil {
		return stripe.Customer{}, fmt.Errorf("%w: listing customers: %w", ErrUpstream, err)
	}
	if len(custs) > 0 {
		if len(custs) > 1 {
			slog.Warn("multiple customers share email, using first", "email", email, "count", len(custs))
		}
		return custs[0], nil
	}
	cust, err := s.gw.CreateCustomer(email)
	if err != nil {
		return stripe.Customer{}, fmt.Errorf("%w: creating customer: %w", ErrUpstream, err)
	}
	slog.Info("customer created", "customer_id", cust.ID)
	return cust, nil
}

func (s serviceImpl) hasLiveSubscriptionOnPlan(customerID string, planID string) (bool, error) {
	subs, err := s.gw.ListSubscriptions(customerID)
	if err != nil {
		return false, fmt.Errorf("%w: listing subscriptions: %w", ErrUpstream, err)
	}
	for _, sub := range subs {
		if isLiveSubscription(sub) && subscriptionPrice(sub) == planID {
			return true, nil
		}
	}
	return false, nil
}

// guardInstrument compares the new session's card fingerprint against the
// default instruments of the customer's other live subscriptions. The session
// already exists at this point; rejection abandons it rather than rolling it
// back. A session whose instrument cannot be resolved yet (the normal case for
// a hosted session awaiting completion) passes the guard.
func (s serviceImpl) guardInstrument(customerID string, sess stripe.CheckoutSession) error {
	fp, err := s.sessionFingerprint(sess)
	if err != nil {
		return err
	}
	if fp == "" {
		return nil
	}

	subs, err := s.gw.ListSubscriptions(customerID)
	if err != nil {
		return fmt.Errorf("%w: listing subscriptions: %w", ErrUpstream, err)
	}
	newSubID := ""
	if sess.Subscription != nil {
		newSubID = sess.Subscription.ID
	}
	for _, sub := range subs {
		if !isLiveSubscription(sub) || sub.ID == newSubID || sub.DefaultPaymentMethod == nil {
			continue
		}
		pm, err := s.gw.GetPaymentMethod(sub.DefaultPaymentMethod.ID)
		if err != nil {
			return fmt.Errorf("%w: fetching payment method: %w", ErrUpstream, err)
		}
		if pm.Card != nil && pm.Card.Fingerprint == fp {
			return fmt.Errorf("%w: instrument already funds subscription %s", ErrDuplicateSubscription, sub.ID)
		}
	}
	return nil
}

// sessionFingerprint resolves the card fingerprint behind the session's
// subscription default instrument, fetching the payment method when the
// session carries only its id.
func (s serviceImpl) sessionFingerprint(sess stripe.CheckoutSession) (string, error) {
	if sess.Subscription == nil || sess.Subscription.DefaultPaymentMethod == nil {
		return "", nil
	}
	pm := sess.Subscription.DefaultPaymentMethod
	if pm.Card != nil && pm.Card.Fingerprint != "" {
		return pm.Card.Fingerprint, nil
	}
	fetched, err := s.gw.GetPaymentMethod(pm.ID)
	if err != nil {
		return "", fmt.Errorf("%w: fetching session payment method: %w", ErrUpstream, err)
	}
	if fetched.Card == nil {
		return "", nil
	}
	return fetched.Card.Fingerprint, nil
}
