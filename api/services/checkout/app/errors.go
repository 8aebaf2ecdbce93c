package app

import "errors"

// Typed errors for the gatekeeper app layer. These enable HTTP mapping without
// relying on SDK-specific error types at the transport layer.
var (

	// ErrInvalidArgument indicates bad or missing caller input; no gateway call was made.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthenticated indicates a missing or failed webhook signature check.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrDuplicateSubscription indicates the duplicate guard rejected the checkout attempt.
	ErrDuplicateSubscription = errors.New("duplicate subscription")
	// ErrPaymentIncomplete indicates verification found a session that has not been paid.
	ErrPaymentIncomplete = errors.New("payment incomplete")
	// ErrUpstream indicates a failure from the payment gateway / Stripe API calls.
	ErrUpstream = errors.New("upstream error")
)
