package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	appmodel "internvault-backend/internal/domains/application/model"
	"internvault-backend/internal/domains/payment/model"
)

const cashfreeAPIVersion = "2023-08-01"

// CashfreeGateway creates UPI orders via the Cashfree PG REST API.
type CashfreeGateway struct {
	http      *resty.Client
	returnURL string
	notifyURL string
}

func NewCashfreeGateway(clientID, clientSecret, apiBase, returnURL, notifyURL string) *CashfreeGateway {
	client := resty.New().
		SetBaseURL(apiBase).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-client-id", clientID).
		SetHeader("x-client-secret", clientSecret).
		SetHeader("x-api-version", cashfreeAPIVersion)

	return &CashfreeGateway{
		http:      client,
		returnURL: returnURL,
		notifyURL: notifyURL,
	}
}

func (g *CashfreeGateway) Name() model.Gateway { return model.GatewayCashfree }

type cashfreeOrderResponse struct {
	OrderID          string `json:"order_id"`
	PaymentSessionID string `json:"payment_session_id"`
	OrderStatus      string `json:"order_status"`
}

func (g *CashfreeGateway) CreateIntent(ctx context.Context, app *appmodel.Application) (*Intent, error) {
	body := map[string]any{
		"order_amount":   app.Price.InexactFloat64(),
		"order_currency": app.Currency,
		"order_note":     fmt.Sprintf("InternVault Application Fee for %s (%s)", app.Domain, app.Role),
		"customer_details": map[string]string{
			"customer_id":    app.UserID.String(),
			"customer_email": app.ContactEmail,
			"customer_phone": normalizePhone(app.WhatsappNumber),
		},
		"order_meta": map[string]string{
			"return_url":      g.returnURL,
			"notify_url":      g.notifyURL,
			"payment_methods": "upi",
		},
	}

	var order cashfreeOrderResponse
	resp, err := g.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&order).
		Post("/orders")
	if err != nil {
		return nil, fmt.Errorf("creating cashfree order: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("cashfree order endpoint returned %s", resp.Status())
	}

	return &Intent{RedirectURL: order.PaymentSessionID, ProviderPaymentID: order.OrderID}, nil
}

// VerifyCashfreeSignature checks the x-webhook-signature header against
// an HMAC-SHA256 of the raw request body.
func VerifyCashfreeSignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// normalizePhone keeps the trailing ten digits, which is the format the
// provider expects for Indian numbers.
func normalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	if len(s) > 10 {
		return s[len(s)-10:]
	}
	return s
}
