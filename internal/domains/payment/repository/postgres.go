package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"internvault-backend/internal/domains/payment/model"
)

// =====================================================
// POSTGRES PAYMENT REPOSITORY
// =====================================================

type postgresPaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &postgresPaymentRepository{pool: pool}
}

const paymentColumns = `
	id, application_id, amount, currency, gateway,
	gateway_payment_id, status, checkout_url, expires_at,
	created_at, updated_at
`

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(
		&p.ID,
		&p.ApplicationID,
		&p.Amount,
		&p.Currency,
		&p.Gateway,
		&p.GatewayPaymentID,
		&p.Status,
		&p.CheckoutURL,
		&p.ExpiresAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}
	return &p, nil
}

func (r *postgresPaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	query := `
		INSERT INTO payments (
			id, application_id, amount, currency, gateway,
			gateway_payment_id, status, checkout_url, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		payment.ID,
		payment.ApplicationID,
		payment.Amount,
		payment.Currency,
		payment.Gateway,
		payment.GatewayPaymentID,
		payment.Status,
		payment.CheckoutURL,
		payment.ExpiresAt,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrActivePaymentExists
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *postgresPaymentRepository) GetActivePending(ctx context.Context, applicationID uuid.UUID, gateway model.Gateway) (*model.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE application_id = $1
		  AND gateway = $2
		  AND status = 'PENDING'
		  AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	return scanPayment(r.pool.QueryRow(ctx, query, applicationID, gateway))
}

func (r *postgresPaymentRepository) GetByGatewayPaymentID(ctx context.Context, gateway model.Gateway, gatewayPaymentID string) (*model.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE gateway = $1 AND gateway_payment_id = $2
	`

	return scanPayment(r.pool.QueryRow(ctx, query, gateway, gatewayPaymentID))
}

func (r *postgresPaymentRepository) ListByApplicationID(ctx context.Context, applicationID uuid.UUID) ([]*model.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE application_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *postgresPaymentRepository) UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.PaymentStatus) error {
	query := `
		UPDATE payments
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPaymentNotFound
	}
	return nil
}

func (r *postgresPaymentRepository) CancelExpired(ctx context.Context) (int64, error) {
	query := `
		UPDATE payments
		SET status = 'CANCELLED', updated_at = NOW()
		WHERE status = 'PENDING' AND expires_at <= NOW()
	`

	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel expired payments: %w", err)
	}
	return tag.RowsAffected(), nil
}
