package app

// GuardPolicy selects the duplicate-subscription guard strength.
type GuardPolicy string

const (
	// GuardPlan rejects before session creation when the customer already has a
	// live subscription on the requested price. No side effect on rejection.
	GuardPlan GuardPolicy = "plan"

	// GuardInstrument creates the session first, then rejects when its payment
	// instrument fingerprint matches the default instrument of another live
	// subscription. The created session is abandoned on rejection, not rolled
	// back; it expires unused.
	GuardInstrument GuardPolicy = "instrument"
)

// Settings is the immutable configuration injected into the service at
// construction. Handlers and the service never read the environment directly.
type Settings struct {
	FrontendURL   string
	WebhookSecret string
	Guard         GuardPolicy
}

// CheckoutResult is the domain response for a successful checkout initiation.
// HTTP layer will translate this into JSON.
// Keep value types to avoid pointer proliferation in domain.
type CheckoutResult struct {
	SessionID string `json:"sessionId"`
}

// VerifyResult carries the identifiers linked to a completed checkout session.
type VerifyResult struct {
	CustomerID     string `json:"customerId"`
	SubscriptionID string `json:"subscriptionId"`
}
