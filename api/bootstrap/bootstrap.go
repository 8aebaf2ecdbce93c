package bootstrap

import (
	"fmt"
	"sync"

	"github.com/tbeaudouin05/stripe-gatekeeper/api/config"
	checkoutapp "github.com/tbeaudouin05/stripe-gatekeeper/api/services/checkout/app"
	stripegw "github.com/tbeaudouin05/stripe-gatekeeper/api/services/checkout/gateway/stripe"
)

var checkoutService checkoutapp.Service
var initOnce sync.Once
var initErr error

// Init initializes config and the Stripe client, and wires the service.
func Init() error {
	// If a service has already been injected (e.g., tests), do not override or init heavy deps.
	if checkoutService != nil {
		return nil
	}
	var err error
	if config.AppConfig == nil {
		config.AppConfig, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	stripegw.SetKey(config.AppConfig.StripeSecretKey)

	checkoutService = checkoutapp.NewService(stripegw.New(), checkoutapp.Settings{
		FrontendURL:   config.AppConfig.FrontendURL,
		WebhookSecret: config.AppConfig.StripeWebhookSecret,
		Guard:         checkoutapp.GuardPolicy(config.AppConfig.DuplicateGuard),
	})
	return nil
}

func GetCheckoutService() checkoutapp.Service { return checkoutService }

// SetCheckoutService allows tests to inject a stub implementation.
func SetCheckoutService(s checkoutapp.Service) { checkoutService = s }

// Ensure runs Init() once per process and returns any initialization error.
func Ensure() error {
	initOnce.Do(func() {
		initErr = Init()
	})
	return initErr
}
