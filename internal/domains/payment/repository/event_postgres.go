package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"internvault-backend/internal/domains/payment/model"
)

// =====================================================
// POSTGRES PAYMENT EVENT REPOSITORY
// =====================================================

type postgresPaymentEventRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPaymentEventRepository(pool *pgxpool.Pool) PaymentEventRepository {
	return &postgresPaymentEventRepository{pool: pool}
}

func (r *postgresPaymentEventRepository) AppendWithTx(ctx context.Context, tx pgx.Tx, event *model.PaymentEvent) error {
	query := `
		INSERT INTO payment_events (
			id, payment_id, gateway, event_type, outcome, raw_payload
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING received_at
	`

	err := tx.QueryRow(ctx, query,
		event.ID,
		event.PaymentID,
		event.Gateway,
		event.EventType,
		event.Outcome,
		event.RawPayload,
	).Scan(&event.ReceivedAt)
	if err != nil {
		return fmt.Errorf("failed to append payment event: %w", err)
	}
	return nil
}

func (r *postgresPaymentEventRepository) ListByPaymentID(ctx context.Context, paymentID uuid.UUID) ([]*model.PaymentEvent, error) {
	query := `
		SELECT id, payment_id, gateway, event_type, outcome, raw_payload, received_at
		FROM payment_events
		WHERE payment_id = $1
		ORDER BY received_at ASC
	`

	rows, err := r.pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment events: %w", err)
	}
	defer rows.Close()

	var events []*model.PaymentEvent
	for rows.Next() {
		var e model.PaymentEvent
		if err := rows.Scan(
			&e.ID,
			&e.PaymentID,
			&e.Gateway,
			&e.EventType,
			&e.Outcome,
			&e.RawPayload,
			&e.ReceivedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment event: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}
