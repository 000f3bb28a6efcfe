package service

import (
	"context"

	"github.com/google/uuid"

	"internvault-backend/internal/domains/payment/model"
)

type PaymentService interface {
	// CreateCheckout creates (or reuses) a gateway checkout for the
	// user's application and returns the redirect URL.
	CreateCheckout(ctx context.Context, userID, applicationID uuid.UUID, gw model.Gateway) (*model.CheckoutResponse, error)

	// ListByApplication returns every payment attempt for an
	// application, newest first.
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*model.PaymentDTO, error)

	// ExpireStalePayments cancels PENDING payments whose checkout
	// window has lapsed. Run periodically by the worker.
	ExpireStalePayments(ctx context.Context) (int64, error)
}

// WebhookService verifies provider callbacks, normalizes their event
// vocabulary and hands the result to the reconciliation engine.
type WebhookService interface {
	HandleStripe(ctx context.Context, payload []byte, signature string) error
	HandlePayPal(ctx context.Context, payload []byte) error
	HandleCashfree(ctx context.Context, payload []byte, signature string) error
}
