package app

import (
	"errors"

	stripe "github.com/stripe/stripe-go/v76"

	gw "github.com/tbeaudouin05/stripe-gatekeeper/api/services/checkout/gateway"
)

// fakeGateway is an in-memory PaymentGateway. It records every call so tests
// can assert which backend operations ran (and that none ran at all).
type fakeGateway struct {
	customers map[string][]stripe.Customer      // keyed by email
	subs      map[string][]stripe.Subscription  // keyed by customer id
	sessions  map[string]stripe.CheckoutSession // keyed by session id
	methods   map[string]stripe.PaymentMethod   // keyed by payment method id

	created    stripe.CheckoutSession // returned by CreateCheckoutSession
	failWith   error                  // returned by every call when set
	goodSig    string                 // signature accepted by VerifyEvent
	event      stripe.Event           // returned on a good signature
	lastParams gw.CheckoutSessionParams
	calls      []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		customers: map[string][]stripe.Customer{},
		subs:      map[string][]stripe.Subscription{},
		sessions:  map[string]stripe.CheckoutSession{},
		methods:   map[string]stripe.PaymentMethod{},
	}
}

func (f *fakeGateway) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeGateway) CreateCheckoutSession(p gw.CheckoutSessionParams) (stripe.CheckoutSession, error) {
	f.record("CreateCheckoutSession")
	f.lastParams = p
	if f.failWith != nil {
		return stripe.CheckoutSession{}, f.failWith
	}
	return f.created, nil
}

func (f *fakeGateway) GetCheckoutSession(id string) (stripe.CheckoutSession, error) {
	f.record("GetCheckoutSession")
	if f.failWith != nil {
		return stripe.CheckoutSession{}, f.failWith
	}
	sess, ok := f.sessions[id]
	if !ok {
		return stripe.CheckoutSession{}, errors.New("no such checkout session")
	}
	return sess, nil
}

func (f *fakeGateway) ListCustomersByEmail(email string) ([]stripe.Customer, error) {
	f.record("ListCustomersByEmail")
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.customers[email], nil
}

func (f *fakeGateway) CreateCustomer(email string) (stripe.Customer, error) {
	f.record("CreateCustomer")
	if f.failWith != nil {
		return stripe.Customer{}, f.failWith
	}
	cust := stripe.Customer{ID: "cus_new", Email: email}
	f.customers[email] = append(f.customers[email], cust)
	return cust, nil
}

func (f *fakeGateway) ListSubscriptions(customerID string) ([]stripe.Subscription, error) {
	f.record("ListSubscriptions")
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.subs[customerID], nil
}

func (f *fakeGateway) GetPaymentMethod(id string) (stripe.PaymentMethod, error) {
	f.record("GetPaymentMethod")
	if f.failWith != nil {
		return stripe.PaymentMethod{}, f.failWith
	}
	return f.methods[id], nil
}

func (f *fakeGateway) VerifyEvent(payload []byte, sigHeader string, secret string) (stripe.Event, error) {
	f.record("VerifyEvent")
	if f.goodSig == "" || sigHeader != f.goodSig {
		return stripe.Event{}, errors.New("signature mismatch")
	}
	return f.event, nil
}

// subscriptionOn builds a subscription on the given price with the given
// status and default payment method id.
func subscriptionOn(id string, priceID string, status stripe.SubscriptionStatus, pmID string) stripe.Subscription {
	sub := stripe.Subscription{
		ID:     id,
		Status: status,
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{
				{Price: &stripe.Price{ID: priceID}},
			},
		},
	}
	if pmID != "" {
		sub.DefaultPaymentMethod = &stripe.PaymentMethod{ID: pmID}
	}
	return sub
}

func cardMethod(id string, fingerprint string) stripe.PaymentMethod {
	return stripe.PaymentMethod{
		ID:   id,
		Card: &stripe.PaymentMethodCard{Fingerprint: fingerprint},
	}
}
