package gateway

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	appmodel "internvault-backend/internal/domains/application/model"
	"internvault-backend/internal/domains/payment/model"
)

// PayPalGateway creates orders via the PayPal Orders v2 REST API.
type PayPalGateway struct {
	http         *resty.Client
	clientID     string
	clientSecret string
	frontendURL  string
}

func NewPayPalGateway(clientID, clientSecret, apiBase, frontendURL string) *PayPalGateway {
	client := resty.New().
		SetBaseURL(apiBase).
		SetHeader("Content-Type", "application/json")

	return &PayPalGateway{
		http:         client,
		clientID:     clientID,
		clientSecret: clientSecret,
		frontendURL:  frontendURL,
	}
}

func (g *PayPalGateway) Name() model.Gateway { return model.GatewayPayPal }

type paypalTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type paypalOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

func (g *PayPalGateway) accessToken(ctx context.Context) (string, error) {
	var token paypalTokenResponse
	resp, err := g.http.R().
		SetContext(ctx).
		SetBasicAuth(g.clientID, g.clientSecret).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		SetResult(&token).
		Post("/v1/oauth2/token")
	if err != nil {
		return "", fmt.Errorf("requesting paypal access token: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("paypal token endpoint returned %s", resp.Status())
	}
	return token.AccessToken, nil
}

func (g *PayPalGateway) CreateIntent(ctx context.Context, app *appmodel.Application) (*Intent, error) {
	token, err := g.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{
				"amount": map[string]string{
					"currency_code": app.Currency,
					"value":         app.Price.StringFixed(2),
				},
				"custom_id":   app.ID.String(),
				"description": fmt.Sprintf("%s Internship (%d months)", app.Domain, app.Duration),
			},
		},
		"application_context": map[string]string{
			"brand_name":  "InternVault",
			"user_action": "PAY_NOW",
			"return_url":  g.frontendURL + "/payment/payment-success",
			"cancel_url":  g.frontendURL + "/payment/payment-cancelled",
		},
	}

	var order paypalOrderResponse
	resp, err := g.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(body).
		SetResult(&order).
		Post("/v2/checkout/orders")
	if err != nil {
		return nil, fmt.Errorf("creating paypal order: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("paypal order endpoint returned %s", resp.Status())
	}

	for _, link := range order.Links {
		if link.Rel == "approve" {
			return &Intent{RedirectURL: link.Href, ProviderPaymentID: order.ID}, nil
		}
	}
	return nil, fmt.Errorf("paypal order %s has no approval link", order.ID)
}
