package model

import "time"

// CheckoutResponse is returned from every pay endpoint. The frontend
// redirects the user to URL to complete the payment.
type CheckoutResponse struct {
	URL              string    `json:"url"`
	GatewayPaymentID string    `json:"gatewayPaymentId"`
	Gateway          Gateway   `json:"gateway"`
	ExpiresAt        time.Time `json:"expiresAt"`
}

// PaymentDTO is the admin-facing view of a payment row.
type PaymentDTO struct {
	ID               string        `json:"id"`
	ApplicationID    string        `json:"applicationId"`
	Amount           string        `json:"amount"`
	Currency         string        `json:"currency"`
	Gateway          Gateway       `json:"gateway"`
	GatewayPaymentID string        `json:"gatewayPaymentId"`
	Status           PaymentStatus `json:"status"`
	ExpiresAt        time.Time     `json:"expiresAt"`
	CreatedAt        time.Time     `json:"createdAt"`
}

func (p *Payment) ToDTO() *PaymentDTO {
	return &PaymentDTO{
		ID:               p.ID.String(),
		ApplicationID:    p.ApplicationID.String(),
		Amount:           p.Amount.String(),
		Currency:         p.Currency,
		Gateway:          p.Gateway,
		GatewayPaymentID: p.GatewayPaymentID,
		Status:           p.Status,
		ExpiresAt:        p.ExpiresAt,
		CreatedAt:        p.CreatedAt,
	}
}
