package gateway

import stripe "github.com/stripe/stripe-go/v76"

// CheckoutSessionParams carries the inputs for creating a hosted checkout
// session in subscription mode. Redirect URLs are fully resolved by the caller.
type CheckoutSessionParams struct {
	CustomerID string
	PriceID    string
	SuccessURL string
	CancelURL  string
}

// PaymentGateway abstracts the payment-backend operations needed by the app
// layer. Methods return values (not pointers) to respect the project's
// preference to avoid pointer types in public interfaces.
type PaymentGateway interface {
	CreateCheckoutSession(params CheckoutSessionParams) (stripe.CheckoutSession, error)
	GetCheckoutSession(id string) (stripe.CheckoutSession, error)
	ListCustomersByEmail(email string) ([]stripe.Customer, error)
	CreateCustomer(email string) (stripe.Customer, error)
	ListSubscriptions(customerID string) ([]stripe.Subscription, error)
	GetPaymentMethod(id string) (stripe.PaymentMethod, error)
	VerifyEvent(payload []byte, sigHeader string, secret string) (stripe.Event, error)
}
