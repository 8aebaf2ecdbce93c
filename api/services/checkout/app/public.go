package app

import (
	"errors"

	stripe "github.com/stripe/stripe-go/v76"
)

// PublicMessage maps an app-layer error to text safe to show callers. Full
// detail is logged server-side; raw backend diagnostics never pass through,
// with one exception: Stripe card errors, whose message the backend already
// classifies as user-presentable (e.g. a decline reason).
func PublicMessage(err error) string {
	var sErr *stripe.Error
	if errors.As(err, &sErr) && sErr.Type == stripe.ErrorTypeCard && sErr.Msg != "" {
		return sErr.Msg
	}
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return "Invalid request."
	case errors.Is(err, ErrDuplicateSubscription):
		return "An active subscription already exists for this customer."
	case errors.Is(err, ErrPaymentIncomplete):
		return "Subscription payment not successful or session incomplete."
	case errors.Is(err, ErrUnauthenticated):
		return "Webhook Error: invalid or missing signature."
	default:
		return "Internal server error."
	}
}
