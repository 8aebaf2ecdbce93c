package app

import (
	stripe "github.com/stripe/stripe-go/v76"
)

// Redirect targets embed the session token placeholder so the frontend can
// hand the token back to VerifyCheckout after the hosted flow returns.
const (
	successURLFormat = "%s/ai-talks-back/success?session_id={CHECKOUT_SESSION_ID}"
	cancelURLFormat  = "%s/ai-talks-back/cancel"
)

// isLiveSubscription returns true when the subscription blocks a new checkout:
// active or trialing. Every other status, past_due included, does not.
func isLiveSubscription(sub stripe.Subscription) bool {
	return sub.Status == stripe.SubscriptionStatusActive ||
		sub.Status == stripe.SubscriptionStatusTrialing
}

// subscriptionPrice returns the price id of the subscription's first item, or
// "" when the backend returned no items.
func subscriptionPrice(sub stripe.Subscription) string {
	if sub.Items == nil || len(sub.Items.Data) == 0 {
		return ""
	}
	item := sub.Items.Data[0]
	if item == nil || item.Price == nil {
		return ""
	}
	return item.Price.ID
}

// isPaid reports whether the session's payment completed. no_payment_required
// covers fully discounted or trial-only checkouts.
func isPaid(sess stripe.CheckoutSession) bool {
	return sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid ||
		sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusNoPaymentRequired
}
