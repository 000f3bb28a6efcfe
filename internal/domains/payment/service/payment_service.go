package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	appmodel "internvault-backend/internal/domains/application/model"
	apprepo "internvault-backend/internal/domains/application/repository"
	"internvault-backend/internal/domains/payment/gateway"
	"internvault-backend/internal/domains/payment/model"
	"internvault-backend/internal/domains/payment/repository"
	"internvault-backend/pkg/logger"
)

// =====================================================
// PAYMENT SERVICE
// =====================================================

type paymentService struct {
	paymentRepo repository.PaymentRepository
	appRepo     apprepo.ApplicationRepository
	gateways    map[model.Gateway]gateway.Gateway
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	appRepo apprepo.ApplicationRepository,
	gateways []gateway.Gateway,
) PaymentService {
	byName := make(map[model.Gateway]gateway.Gateway, len(gateways))
	for _, g := range gateways {
		byName[g.Name()] = g
	}
	return &paymentService{
		paymentRepo: paymentRepo,
		appRepo:     appRepo,
		gateways:    byName,
	}
}

func (s *paymentService) CreateCheckout(ctx context.Context, userID, applicationID uuid.UUID, gw model.Gateway) (*model.CheckoutResponse, error) {
	// Step 1: ownership and payability checks
	app, err := s.appRepo.GetByIDAndUserID(ctx, applicationID, userID)
	if err != nil {
		return nil, err
	}
	if app.Status != appmodel.StatusPending {
		return nil, model.ErrApplicationNotPending
	}
	if app.IsPaid {
		return nil, model.ErrAlreadyPaid
	}

	// Step 2: reuse an unexpired checkout instead of creating another
	// order at the provider
	existing, err := s.paymentRepo.GetActivePending(ctx, app.ID, gw)
	if err == nil {
		return checkoutResponse(existing), nil
	}
	if !errors.Is(err, model.ErrPaymentNotFound) {
		return nil, err
	}

	adapter, ok := s.gateways[gw]
	if !ok {
		return nil, model.ErrGatewayUnavailable
	}

	// Step 3: create the intent at the provider first, then persist.
	// A provider failure here leaves no partial row behind.
	intent, err := adapter.CreateIntent(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("gateway %s: %w", gw, err)
	}

	payment := &model.Payment{
		ID:               uuid.New(),
		ApplicationID:    app.ID,
		Amount:           app.Price,
		Currency:         app.Currency,
		Gateway:          gw,
		GatewayPaymentID: intent.ProviderPaymentID,
		Status:           model.PaymentPending,
		CheckoutURL:      intent.RedirectURL,
		ExpiresAt:        time.Now().Add(model.IntentTTL),
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, model.ErrActivePaymentExists) {
			// Either a concurrent request won the PENDING slot, or an
			// expired row still holds it because the sweep has not run
			// yet. Clear stale rows and retry once; if the slot is
			// genuinely taken, return the winner's checkout instead.
			if _, sweepErr := s.paymentRepo.CancelExpired(ctx); sweepErr != nil {
				return nil, sweepErr
			}
			if retryErr := s.paymentRepo.Create(ctx, payment); retryErr != nil {
				winner, getErr := s.paymentRepo.GetActivePending(ctx, app.ID, gw)
				if getErr == nil {
					return checkoutResponse(winner), nil
				}
				return nil, retryErr
			}
		} else {
			return nil, err
		}
	}

	logger.Info("Checkout created", map[string]interface{}{
		"application_id":     app.ID.String(),
		"gateway":            string(gw),
		"gateway_payment_id": payment.GatewayPaymentID,
	})

	return checkoutResponse(payment), nil
}

func (s *paymentService) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]*model.PaymentDTO, error) {
	payments, err := s.paymentRepo.ListByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	dtos := make([]*model.PaymentDTO, 0, len(payments))
	for _, p := range payments {
		dtos = append(dtos, p.ToDTO())
	}
	return dtos, nil
}

func (s *paymentService) ExpireStalePayments(ctx context.Context) (int64, error) {
	n, err := s.paymentRepo.CancelExpired(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info("Cancelled stale pending payments", map[string]interface{}{
			"count": n,
		})
	}
	return n, nil
}

func checkoutResponse(p *model.Payment) *model.CheckoutResponse {
	return &model.CheckoutResponse{
		URL:              p.CheckoutURL,
		GatewayPaymentID: p.GatewayPaymentID,
		Gateway:          p.Gateway,
		ExpiresAt:        p.ExpiresAt,
	}
}
