package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	appmodel "internvault-backend/internal/domains/application/model"
	apprepo "internvault-backend/internal/domains/application/repository"
	"internvault-backend/internal/domains/payment/model"
	"internvault-backend/internal/domains/payment/repository"
	"internvault-backend/internal/infrastructure/database"
	"internvault-backend/internal/infrastructure/email"
	"internvault-backend/internal/infrastructure/queue"
	"internvault-backend/pkg/logger"
)

// =====================================================
// RECONCILIATION ENGINE
// =====================================================

// Reconciler applies a verified, normalized webhook outcome to the
// payment and its application in one transaction.
type Reconciler interface {
	Reconcile(ctx context.Context, gw model.Gateway, providerPaymentID, eventType string, outcome model.Outcome, rawPayload []byte) error
}

type reconcileService struct {
	paymentRepo repository.PaymentRepository
	eventRepo   repository.PaymentEventRepository
	appRepo     apprepo.ApplicationRepository
	txManager   database.TransactionManager
	enqueuer    queue.TaskEnqueuer
}

func NewReconcileService(
	paymentRepo repository.PaymentRepository,
	eventRepo repository.PaymentEventRepository,
	appRepo apprepo.ApplicationRepository,
	txManager database.TransactionManager,
	enqueuer queue.TaskEnqueuer,
) Reconciler {
	return &reconcileService{
		paymentRepo: paymentRepo,
		eventRepo:   eventRepo,
		appRepo:     appRepo,
		txManager:   txManager,
		enqueuer:    enqueuer,
	}
}

func (s *reconcileService) Reconcile(ctx context.Context, gw model.Gateway, providerPaymentID, eventType string, outcome model.Outcome, rawPayload []byte) error {
	payment, err := s.paymentRepo.GetByGatewayPaymentID(ctx, gw, providerPaymentID)
	if err != nil {
		return err
	}

	event := &model.PaymentEvent{
		ID:         uuid.New(),
		PaymentID:  payment.ID,
		Gateway:    gw,
		EventType:  eventType,
		Outcome:    outcome,
		RawPayload: rawPayload,
	}

	// Redelivered events for an already-settled payment only extend
	// the audit trail. The payment and application stay untouched and
	// no second email goes out.
	if payment.Status != model.PaymentPending {
		logger.Info("Payment already reconciled, recording event only", map[string]interface{}{
			"payment_id": payment.ID.String(),
			"status":     string(payment.Status),
			"event_type": eventType,
		})
		return s.appendEventOnly(ctx, event)
	}

	var app *appmodel.Application

	tx, err := s.txManager.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if tx != nil {
			_ = s.txManager.RollbackTx(ctx, tx)
		}
	}()

	if err := s.eventRepo.AppendWithTx(ctx, tx, event); err != nil {
		return err
	}

	switch outcome {
	case model.OutcomePaid:
		if err := s.paymentRepo.UpdateStatusWithTx(ctx, tx, payment.ID, model.PaymentCompleted); err != nil {
			return err
		}
		app, err = s.appRepo.GetByIDWithTx(ctx, tx, payment.ApplicationID)
		if err != nil {
			return err
		}
		app.IsPaid = true
		// Stripe's checkout flow completes the application outright;
		// the other providers leave it running until projects finish.
		if gw == model.GatewayStripe {
			app.Status = appmodel.StatusCompleted
		} else if app.Status == appmodel.StatusPending {
			app.Status = appmodel.StatusInProgress
		}
		// Payment can land before or after the project certificate;
		// the internship certificate unlocks on whichever comes last.
		if app.HasProjectCertificate {
			app.HasInternshipCertificate = true
		}
		if err := s.appRepo.UpdateWithTx(ctx, tx, app); err != nil {
			return err
		}

	case model.OutcomeFailed:
		if err := s.paymentRepo.UpdateStatusWithTx(ctx, tx, payment.ID, model.PaymentFailed); err != nil {
			return err
		}

	case model.OutcomeExpired, model.OutcomeCancelled:
		if err := s.paymentRepo.UpdateStatusWithTx(ctx, tx, payment.ID, model.PaymentCancelled); err != nil {
			return err
		}
	}

	if err := s.txManager.CommitTx(ctx, tx); err != nil {
		return err
	}
	tx = nil

	// Mail goes out only after the transaction commits. A lost email
	// is recoverable; a phantom email about an uncommitted payment is
	// not.
	switch outcome {
	case model.OutcomePaid:
		s.sendSuccessEmail(ctx, app)
	case model.OutcomeFailed:
		s.sendFailureEmail(ctx, payment)
	}

	logger.Info("Payment reconciled", map[string]interface{}{
		"payment_id": payment.ID.String(),
		"gateway":    string(gw),
		"event_type": eventType,
		"outcome":    string(outcome),
	})
	return nil
}

func (s *reconcileService) appendEventOnly(ctx context.Context, event *model.PaymentEvent) error {
	tx, err := s.txManager.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if tx != nil {
			_ = s.txManager.RollbackTx(ctx, tx)
		}
	}()

	if err := s.eventRepo.AppendWithTx(ctx, tx, event); err != nil {
		return err
	}
	if err := s.txManager.CommitTx(ctx, tx); err != nil {
		return err
	}
	tx = nil
	return nil
}

func (s *reconcileService) sendSuccessEmail(ctx context.Context, app *appmodel.Application) {
	start := time.Now()
	// The certificate unlocks five days before the internship's
	// scheduled end.
	unlock := start.AddDate(0, 0, app.Duration*30-5)

	err := s.enqueuer.EnqueuePaymentSuccessEmail(ctx, email.PaymentSuccessData{
		Email:      app.ContactEmail,
		Name:       app.FullName,
		Domain:     app.Domain,
		Duration:   fmt.Sprintf("%d", app.Duration),
		StartDate:  start.Format(time.RFC3339),
		UnlockDate: unlock.Format(time.RFC3339),
	})
	if err != nil {
		logger.Error("Failed to enqueue payment success email", err)
	}
}

func (s *reconcileService) sendFailureEmail(ctx context.Context, payment *model.Payment) {
	app, err := s.appRepo.GetByID(ctx, payment.ApplicationID)
	if err != nil {
		logger.Error("Failed to load application for failure email", err)
		return
	}
	err = s.enqueuer.EnqueuePaymentFailedEmail(ctx, email.PaymentFailedData{
		Email:  app.ContactEmail,
		Name:   app.FullName,
		Domain: app.Domain,
	})
	if err != nil {
		logger.Error("Failed to enqueue payment failed email", err)
	}
}
