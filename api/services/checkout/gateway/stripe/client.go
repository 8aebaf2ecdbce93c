package stripegw

import (
	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/paymentmethod"
	"github.com/stripe/stripe-go/v76/subscription"
	"github.com/stripe/stripe-go/v76/webhook"

	gw "github.com/tbeaudouin05/stripe-gatekeeper/api/services/checkout/gateway"
)

// SetKey configures the Stripe SDK key once during bootstrap.
func SetKey(key string) { stripe.Key = key }

// client is the Stripe SDK-backed implementation of the gateway.
type client struct{}

// New returns a PaymentGateway backed by the official Stripe SDK.
func New() gw.PaymentGateway { return client{} }

func (client) CreateCheckoutSession(p gw.CheckoutSessionParams) (stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	if p.CustomerID != "" {
		params.Customer = stripe.String(p.CustomerID)
	}
	sessPtr, err := session.New(params)
	if err != nil {
		return stripe.CheckoutSession{}, err
	}
	if sessPtr == nil {
		return stripe.CheckoutSession{}, nil
	}
	return *sessPtr, nil
}

func (client) GetCheckoutSession(id string) (stripe.CheckoutSession, error) {
	sessPtr, err := session.Get(id, nil)
	if err != nil {
		return stripe.CheckoutSession{}, err
	}
	if sessPtr == nil {
		return stripe.CheckoutSession{}, nil
	}
	return *sessPtr, nil
}

func (client) ListCustomersByEmail(email string) ([]stripe.Customer, error) {
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	iter := customer.List(params)
	var custs []stripe.Customer
	for iter.Next() {
		custPtr := iter.Customer()
		if custPtr != nil {
			custs = append(custs, *custPtr)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return custs, nil
}

func (client) CreateCustomer(email string) (stripe.Customer, error) {
	custPtr, err := customer.New(&stripe.CustomerParams{Email: stripe.String(email)})
	if err != nil {
		return stripe.Customer{}, err
	}
	if custPtr == nil {
		return stripe.Customer{}, nil
	}
	return *custPtr, nil
}

func (client) ListSubscriptions(customerID string) ([]stripe.Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		// All statuses; the app layer decides which count as live.
		Status: stripe.String("all"),
	}
	iter := subscription.List(params)
	var subs []stripe.Subscription
	for iter.Next() {
		subPtr := iter.Subscription()
		if subPtr != nil {
			subs = append(subs, *subPtr)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return subs, nil
}

func (client) GetPaymentMethod(id string) (stripe.PaymentMethod, error) {
	pmPtr, err := paymentmethod.Get(id, nil)
	if err != nil {
		return stripe.PaymentMethod{}, err
	}
	if pmPtr == nil {
		return stripe.PaymentMethod{}, nil
	}
	return *pmPtr, nil
}

func (client) VerifyEvent(payload []byte, sigHeader string, secret string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, secret)
}
