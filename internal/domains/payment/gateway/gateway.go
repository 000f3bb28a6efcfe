// Package gateway contains the provider adapters used to create
// checkout intents. Each adapter talks to one payment provider and
// normalizes its response into an Intent.
package gateway

import (
	"context"

	appmodel "internvault-backend/internal/domains/application/model"
	"internvault-backend/internal/domains/payment/model"
)

// Intent is the normalized result of creating a checkout at a provider.
type Intent struct {
	// RedirectURL is where the frontend sends the user to pay.
	RedirectURL string
	// ProviderPaymentID is the provider's identifier for this checkout.
	// Webhook deliveries reference it, so it must be stored verbatim.
	ProviderPaymentID string
}

// Gateway creates checkout intents at one payment provider.
type Gateway interface {
	Name() model.Gateway
	CreateIntent(ctx context.Context, app *appmodel.Application) (*Intent, error)
}
