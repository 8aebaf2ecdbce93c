package app

import (
	"fmt"
	"log/slog"
)

// VerifyCheckout reports the outcome of a prior checkout attempt. It is a pure
// read against the payment backend with no side effects, safe to retry or poll.
func (s serviceImpl) VerifyCheckout(sessionToken string) (VerifyResult, error) {
	if sessionToken == "" {
		return VerifyResult{}, fmt.Errorf("%w: session token is required", ErrInvalidArgument)
	}

	sess, err := s.gw.GetCheckoutSession(sessionToken)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("%w: retrieving checkout session: %w", ErrUpstream, err)
	}

	if !isPaid(sess) {
		// Raw backend status is for server-side diagnostics only, never for
		// caller-facing trust decisions.
		slog.Warn("checkout session not paid",
			"session_id", sessionToken,
			"payment_status", string(sess.PaymentStatus),
			"session_status", string(sess.Status))
		return VerifyResult{}, fmt.Errorf("%w: payment status %q", ErrPaymentIncomplete, sess.PaymentStatus)
	}

	res := VerifyResult{}
	if sess.Customer != nil {
		res.CustomerID = sess.Customer.ID
	}
	if sess.Subscription != nil {
		res.SubscriptionID = sess.Subscription.ID
	}
	slog.Info("subscription verified",
		"session_id", sessionToken,
		"customer_id", res.CustomerID,
		"subscription_id", res.SubscriptionID)
	return res, nil
}
