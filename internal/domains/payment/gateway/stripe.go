package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"

	appmodel "internvault-backend/internal/domains/application/model"
	"internvault-backend/internal/domains/payment/model"
)

// StripeGateway creates hosted Checkout Sessions.
type StripeGateway struct {
	frontendURL string
}

func NewStripeGateway(secretKey, frontendURL string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{frontendURL: frontendURL}
}

func (g *StripeGateway) Name() model.Gateway { return model.GatewayStripe }

func (g *StripeGateway) CreateIntent(ctx context.Context, app *appmodel.Application) (*Intent, error) {
	// Stripe amounts are in the currency's minor unit.
	unitAmount := app.Price.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(app.ContactEmail),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(app.Currency)),
					UnitAmount: stripe.Int64(unitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("%s Internship (%d months)", app.Domain, app.Duration)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(g.frontendURL + "/payment/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(g.frontendURL + "/payment/payment-cancelled"),
	}
	params.Context = ctx
	params.AddMetadata("applicationId", app.ID.String())
	params.AddMetadata("userId", app.UserID.String())

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("creating stripe checkout session: %w", err)
	}

	return &Intent{RedirectURL: sess.URL, ProviderPaymentID: sess.ID}, nil
}
