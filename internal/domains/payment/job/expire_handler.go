package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"internvault-backend/internal/domains/payment/service"
)

// ============================================
// Expire Stale Payments Handler
// ============================================

// ExpireStalePaymentsHandler backs the periodic sweep that cancels
// PENDING payments whose checkout window has lapsed without a webhook.
type ExpireStalePaymentsHandler struct {
	paymentService service.PaymentService
}

func NewExpireStalePaymentsHandler(paymentService service.PaymentService) *ExpireStalePaymentsHandler {
	return &ExpireStalePaymentsHandler{
		paymentService: paymentService,
	}
}

func (h *ExpireStalePaymentsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	count, err := h.paymentService.ExpireStalePayments(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to expire stale payments")
		return fmt.Errorf("expire stale payments: %w", err)
	}

	if count > 0 {
		log.Info().
			Int64("count", count).
			Msg("Expired stale pending payments")
	}

	return nil
}
