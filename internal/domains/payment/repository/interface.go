package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"internvault-backend/internal/domains/payment/model"
)

type PaymentRepository interface {
	// Create inserts a new PENDING payment. Returns
	// model.ErrActivePaymentExists when an unexpired PENDING payment
	// already holds the (application, gateway) slot.
	Create(ctx context.Context, payment *model.Payment) error

	// GetActivePending returns the newest PENDING, unexpired payment
	// for the application and gateway, or model.ErrPaymentNotFound.
	GetActivePending(ctx context.Context, applicationID uuid.UUID, gateway model.Gateway) (*model.Payment, error)

	// GetByGatewayPaymentID resolves a webhook reference to a payment.
	GetByGatewayPaymentID(ctx context.Context, gateway model.Gateway, gatewayPaymentID string) (*model.Payment, error)

	ListByApplicationID(ctx context.Context, applicationID uuid.UUID) ([]*model.Payment, error)

	// UpdateStatusWithTx moves a payment to a terminal status inside
	// the reconciliation transaction.
	UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.PaymentStatus) error

	// CancelExpired marks every PENDING payment past its expiry as
	// CANCELLED and reports how many rows changed.
	CancelExpired(ctx context.Context) (int64, error)
}

type PaymentEventRepository interface {
	// AppendWithTx records a verified webhook delivery. The log is
	// append-only.
	AppendWithTx(ctx context.Context, tx pgx.Tx, event *model.PaymentEvent) error

	ListByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]*model.PaymentEvent, error)
}
