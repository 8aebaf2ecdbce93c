package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	stripe "github.com/stripe/stripe-go/v76"
)

const (
	testPlan     = "plan_basic"
	testEmail    = "a@b.com"
	testFrontend = "http://localhost:3000"
)

func planGuardService(gw *fakeGateway) Service {
	return NewService(gw, Settings{FrontendURL: testFrontend, Guard: GuardPlan})
}

func Test_InitiateCheckout_InvalidInput_NoGatewayCall(t *testing.T) {
	cases := []struct {
		name   string
		planID string
		email  string
	}{
		{"empty plan", "", testEmail},
		{"empty email", testPlan, ""},
		{"malformed email", testPlan, "not-an-email"},
		{"both empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := newFakeGateway()
			svc := planGuardService(gw)

			_, err := svc.InitiateCheckout(tc.planID, tc.email)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Empty(t, gw.calls, "no external call may happen on invalid input")
		})
	}
}

func Test_InitiateCheckout_NewCustomer_CreatesSession(t *testing.T) {
	gw := newFakeGateway()
	gw.created = stripe.CheckoutSession{ID: "cs_test_a1b2c3"}
	svc := planGuardService(gw)

	res, err := svc.InitiateCheckout(testPlan, testEmail)
	assert.NoError(t, err)
	assert.Equal(t, "cs_test_a1b2c3", res.SessionID)

	assert.Contains(t, gw.calls, "CreateCustomer")
	assert.Equal(t, "cus_new", gw.lastParams.CustomerID)
	assert.Equal(t, testPlan, gw.lastParams.PriceID)
	assert.Equal(t, testFrontend+"/ai-talks-back/success?session_id={CHECKOUT_SESSION_ID}", gw.lastParams.SuccessURL)
	assert.Equal(t, testFrontend+"/ai-talks-back/cancel", gw.lastParams.CancelURL)
}

func Test_InitiateCheckout_ExistingCustomer_Reused(t *testing.T) {
	gw := newFakeGateway()
	gw.customers[testEmail] = []stripe.Customer{{ID: "cus_1", Email: testEmail}}
	gw.created = stripe.CheckoutSession{ID: "cs_test_reuse"}
	svc := planGuardService(gw)

	res, err := svc.InitiateCheckout(testPlan, testEmail)
	assert.NoError(t, err)
	assert.Equal(t, "cs_test_reuse", res.SessionID)
	assert.NotContains(t, gw.calls, "CreateCustomer")
	assert.Equal(t, "cus_1", gw.lastParams.CustomerID)
}

func Test_InitiateCheckout_DuplicateEmail_FirstRecordWins(t *testing.T) {
	gw := newFakeGateway()
	gw.customers[testEmail] = []stripe.Customer{
		{ID: "cus_first", Email: testEmail},
		{ID: "cus_second", Email: testEmail},
	}
	gw.created = stripe.CheckoutSession{ID: "cs_test_tiebreak"}
	svc := planGuardService(gw)

	_, err := svc.InitiateCheckout(testPlan, testEmail)
	assert.NoError(t, err)
	assert.Equal(t, "cus_first", gw.lastParams.CustomerID)
}

func Test_InitiateCheckout_PlanGuard_BlocksLiveSubscription(t *testing.T) {
	for _, status := range []stripe.SubscriptionStatus{
		stripe.SubscriptionStatusActive,
		stripe.SubscriptionStatusTrialing,
	} {
		t.Run(string(status), func(t *testing.T) {
			gw := newFakeGateway()
			gw.customers[testEmail] = []stripe.Customer{{ID: "cus_1", Email: testEmail}}
			gw.subs["cus_1"] = []stripe.Subscription{subscriptionOn("sub_1", testPlan, status, "")}
			svc := planGuardService(gw)

			_, err := svc.InitiateCheckout(testPlan, testEmail)
			assert.ErrorIs(t, err, ErrDuplicateSubscription)
			assert.NotContains(t, gw.calls, "CreateCheckoutSession", "plan guard must reject before session creation")
		})
	}
}

func Test_InitiateCheckout_PlanGuard_IgnoresOtherPlansAndDeadStatuses(t *testing.T) {
	gw := newFakeGateway()
	gw.customers[testEmail] = []stripe.Customer{{ID: "cus_1", Email: testEmail}}
	gw.subs["cus_1"] = []stripe.Subscription{
		subscriptionOn("sub_other", "plan_premium", stripe.SubscriptionStatusActive, ""),
		subscriptionOn("sub_dead", testPlan, stripe.SubscriptionStatusCanceled, ""),
		subscriptionOn("sub_due", testPlan, stripe.SubscriptionStatusPastDue, ""),
	}
	gw.created = stripe.CheckoutSession{ID: "cs_test_ok"}
	svc := planGuardService(gw)

	res, err := svc.InitiateCheckout(testPlan, testEmail)
	assert.NoError(t, err)
	assert.Equal(t, "cs_test_ok", res.SessionID)
}

func Test_InitiateCheckout_InstrumentGuard_BlocksMatchingFingerprint(t *testing.T) {
	gw := newFakeGateway()
	gw.customers[testEmail] = []stripe.Customer{{ID: "cus_1", Email: testEmail}}
	gw.subs["cus_1"] = []stripe.Subscription{
		subscriptionOn("sub_old", "plan_premium", stripe.SubscriptionStatusActive, "pm_old"),
	}
	gw.methods["pm_old"] = cardMethod("pm_old", "fp_shared")
	gw.methods["pm_new"] = cardMethod("pm_new", "fp_shared")
	gw.created = stripe.CheckoutSession{
		ID: "cs_test_dup",
		Subscription: &stripe.Subscription{
			ID:                   "sub_new",
			DefaultPaymentMethod: &stripe.PaymentMethod{ID: "pm_new"},
		},
	}
	svc := NewService(gw, Settings{FrontendURL: testFrontend, Guard: GuardInstrument})

	_, err := svc.InitiateCheckout(testPlan, testEmail)
	assert.ErrorIs(t, err, ErrDuplicateSubscription)
	// The stronger guard runs after creation: a session exists but must not be used.
	assert.Contains(t, gw.calls, "CreateCheckoutSession")
}

func Test_InitiateCheckout_InstrumentGuard_PassesWithoutResolvableInstrument(t *testing.T) {
	gw := newFakeGateway()
	gw.customers[testEmail] = []stripe.Customer{{ID: "cus_1", Email: testEmail}}
	gw.subs["cus_1"] = []stripe.Subscription{
		subscriptionOn("sub_old", "plan_premium", stripe.SubscriptionStatusActive, "pm_old"),
	}
	// Hosted session awaiting completion: no subscription linked yet.
	gw.created = stripe.CheckoutSession{ID: "cs_test_pending"}
	svc := NewService(gw, Settings{FrontendURL: testFrontend, Guard: GuardInstrument})

	res, err := svc.InitiateCheckout(testPlan, testEmail)
	assert.NoError(t, err)
	assert.Equal(t, "cs_test_pending", res.SessionID)
}

func Test_InitiateCheckout_InstrumentGuard_DifferentFingerprintAllowed(t *testing.T) {
	gw := newFakeGateway()
	gw.customers[testEmail] = []stripe.Customer{{ID: "cus_1", Email: testEmail}}
	gw.subs["cus_1"] = []stripe.Subscription{
		subscriptionOn("sub_old", "plan_premium", stripe.SubscriptionStatusActive, "pm_old"),
	}
	gw.methods["pm_old"] = cardMethod("pm_old", "fp_old")
	gw.methods["pm_new"] = cardMethod("pm_new", "fp_new")
	gw.created = stripe.CheckoutSession{
		ID: "cs_test_fresh_card",
		Subscription: &stripe.Subscription{
			ID:                   "sub_new",
			DefaultPaymentMethod: &stripe.PaymentMethod{ID: "pm_new"},
		},
	}
	svc := NewService(gw, Settings{FrontendURL: testFrontend, Guard: GuardInstrument})

	res, err := svc.InitiateCheckout(testPlan, testEmail)
	assert.NoError(t, err)
	assert.Equal(t, "cs_test_fresh_card", res.SessionID)
}

func Test_InitiateCheckout_GatewayFailure_IsUpstream(t *testing.T) {
	gw := newFakeGateway()
	gw.failWith = assert.AnError
	svc := planGuardService(gw)

	_, err := svc.InitiateCheckout(testPlan, testEmail)
	assert.ErrorIs(t, err, ErrUpstream)
}
