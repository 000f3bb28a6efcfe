package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gateway identifies the payment provider a payment was created with.
type Gateway string

const (
	GatewayStripe     Gateway = "STRIPE"
	GatewayPayPal     Gateway = "PAYPAL"
	GatewayNetBanking Gateway = "NETBANKING"
	GatewayCashfree   Gateway = "CASHFREE"
)

func (g Gateway) IsValid() bool {
	switch g {
	case GatewayStripe, GatewayPayPal, GatewayNetBanking, GatewayCashfree:
		return true
	}
	return false
}

// PaymentStatus is the lifecycle state of a payment attempt.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

// IntentTTL is how long a checkout intent stays reusable before a new
// one must be created at the gateway.
const IntentTTL = 5 * time.Minute

// Payment is one checkout attempt against a gateway. An application can
// accumulate several payments (retries, switched gateways) but at most
// one PENDING payment per gateway at a time.
type Payment struct {
	ID               uuid.UUID       `db:"id"`
	ApplicationID    uuid.UUID       `db:"application_id"`
	Amount           decimal.Decimal `db:"amount"`
	Currency         string          `db:"currency"`
	Gateway          Gateway         `db:"gateway"`
	GatewayPaymentID string          `db:"gateway_payment_id"`
	Status           PaymentStatus   `db:"status"`
	CheckoutURL      string          `db:"checkout_url"`
	ExpiresAt        time.Time       `db:"expires_at"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

func (p *Payment) IsExpired() bool {
	return time.Now().After(p.ExpiresAt)
}

// IsReusable reports whether the checkout URL of this payment can be
// handed back to the user instead of creating a new gateway intent.
func (p *Payment) IsReusable() bool {
	return p.Status == PaymentPending && !p.IsExpired()
}
