package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internvault-backend/internal/domains/payment/model"
)

type reconcileCall struct {
	gateway           model.Gateway
	providerPaymentID string
	eventType         string
	outcome           model.Outcome
}

type fakeReconciler struct {
	calls []reconcileCall
	err   error
}

func (f *fakeReconciler) Reconcile(_ context.Context, gw model.Gateway, providerPaymentID, eventType string, outcome model.Outcome, _ []byte) error {
	f.calls = append(f.calls, reconcileCall{gw, providerPaymentID, eventType, outcome})
	return f.err
}

const testWebhookSecret = "whsec_test_secret"

func cashfreeSign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// stripeSign builds a Stripe-Signature header the way stripe-go expects
// it: v1 is an HMAC-SHA256 of "<timestamp>.<payload>".
func stripeSign(secret string, payload []byte, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

// =====================================================
// STRIPE
// =====================================================

func TestHandleStripeRejectsBadSignature(t *testing.T) {
	reconciler := &fakeReconciler{}
	svc := NewWebhookService(reconciler, testWebhookSecret, "")

	err := svc.HandleStripe(context.Background(), []byte(`{}`), "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, model.ErrInvalidSignature)
	assert.Empty(t, reconciler.calls)
}

func TestHandleStripeCheckoutCompletedReconcilesPaid(t *testing.T) {
	reconciler := &fakeReconciler{}
	svc := NewWebhookService(reconciler, testWebhookSecret, "")

	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_test_1"}}}`)
	sig := stripeSign(testWebhookSecret, payload, time.Now())

	err := svc.HandleStripe(context.Background(), payload, sig)
	require.NoError(t, err)
	require.Len(t, reconciler.calls, 1)
	assert.Equal(t, model.GatewayStripe, reconciler.calls[0].gateway)
	assert.Equal(t, "cs_test_1", reconciler.calls[0].providerPaymentID)
	assert.Equal(t, model.OutcomePaid, reconciler.calls[0].outcome)
}

func TestHandleStripeAcceptsForeignAPIVersion(t *testing.T) {
	reconciler := &fakeReconciler{}
	svc := NewWebhookService(reconciler, testWebhookSecret, "")

	// Events from accounts pinned to an older Stripe API version carry
	// that version in the envelope; a valid signature must still land.
	payload := []byte(`{"id":"evt_1","api_version":"2020-08-27","type":"checkout.session.completed","data":{"object":{"id":"cs_test_1"}}}`)
	sig := stripeSign(testWebhookSecret, payload, time.Now())

	err := svc.HandleStripe(context.Background(), payload, sig)
	require.NoError(t, err)
	require.Len(t, reconciler.calls, 1)
	assert.Equal(t, "cs_test_1", reconciler.calls[0].providerPaymentID)
}

func TestHandleStripeIgnoresOtherEvents(t *testing.T) {
	reconciler := &fakeReconciler{}
	svc := NewWebhookService(reconciler, testWebhookSecret, "")

	payload := []byte(`{"id":"evt_2","type":"payment_intent.created","data":{"object":{"id":"pi_1"}}}`)
	sig := stripeSign(testWebhookSecret, payload, time.Now())

	err := svc.HandleStripe(context.Background(), payload, sig)
	require.NoError(t, err)
	assert.Empty(t, reconciler.calls)
}

// =====================================================
// PAYPAL
// =====================================================

func TestHandlePayPalApprovedOrderReconcilesPaid(t *testing.T) {
	for _, eventType := range []string{"CHECKOUT.ORDER.APPROVED", "PAYMENT.CAPTURE.COMPLETED"} {
		t.Run(eventType, func(t *testing.T) {
			reconciler := &fakeReconciler{}
			svc := NewWebhookService(reconciler, "", "")

			payload := []byte(fmt.Sprintf(`{"event_type":%q,"resource":{"id":"order_pp_1"}}`, eventType))
			err := svc.HandlePayPal(context.Background(), payload)
			require.NoError(t, err)
			require.Len(t, reconciler.calls, 1)
			assert.Equal(t, model.GatewayPayPal, reconciler.calls[0].gateway)
			assert.Equal(t, "order_pp_1", reconciler.calls[0].providerPaymentID)
			assert.Equal(t, model.OutcomePaid, reconciler.calls[0].outcome)
		})
	}
}

func TestHandlePayPalIgnoresOtherEvents(t *testing.T) {
	reconciler := &fakeReconciler{}
	svc := NewWebhookService(reconciler, "", "")

	err := svc.HandlePayPal(context.Background(), []byte(`{"event_type":"BILLING.PLAN.CREATED","resource":{"id":"x"}}`))
	require.NoError(t, err)
	assert.Empty(t, reconciler.calls)
}

func TestHandlePayPalMalformedPayload(t *testing.T) {
	reconciler := &fakeReconciler{}
	svc := NewWebhookService(reconciler, "", "")

	err := svc.HandlePayPal(context.Background(), []byte(`not json`))
	assert.ErrorIs(t, err, model.ErrMalformedPayload)
}

// =====================================================
// CASHFREE
// =====================================================

func TestHandleCashfreeRejectsBadSignature(t *testing.T) {
	reconciler := &fakeReconciler{}
	svc := NewWebhookService(reconciler, "", testWebhookSecret)

	payload := []byte(`{"eventType":"order.paid","order":{"orderId":"order_1"}}`)
	err := svc.HandleCashfree(context.Background(), payload, "deadbeef")
	assert.ErrorIs(t, err, model.ErrInvalidSignature)
	assert.Empty(t, reconciler.calls)
}

func TestHandleCashfreeAcceptsValidSignature(t *testing.T) {
	reconciler := &fakeReconciler{}
	svc := NewWebhookService(reconciler, "", testWebhookSecret)

	payload := []byte(`{"eventType":"order.paid","order":{"orderId":"order_1"}}`)
	err := svc.HandleCashfree(context.Background(), payload, cashfreeSign(testWebhookSecret, payload))
	require.NoError(t, err)
	require.Len(t, reconciler.calls, 1)
	assert.Equal(t, model.GatewayCashfree, reconciler.calls[0].gateway)
	assert.Equal(t, "order_1", reconciler.calls[0].providerPaymentID)
}

func TestHandleCashfreeProceedsWhenSignatureMissing(t *testing.T) {
	reconciler := &fakeReconciler{}
	svc := NewWebhookService(reconciler, "", testWebhookSecret)

	payload := []byte(`{"eventType":"order.paid","order":{"orderId":"order_1"}}`)
	err := svc.HandleCashfree(context.Background(), payload, "")
	require.NoError(t, err)
	assert.Len(t, reconciler.calls, 1)
}

func TestHandleCashfreeEventMapping(t *testing.T) {
	cases := []struct {
		eventType string
		outcome   model.Outcome
	}{
		{"order.paid", model.OutcomePaid},
		{"order.success", model.OutcomePaid},
		{"order.failed", model.OutcomeFailed},
		{"order.failure", model.OutcomeFailed},
		{"order.expired", model.OutcomeExpired},
		{"order.abandoned", model.OutcomeExpired},
		{"order.dropped", model.OutcomeCancelled},
		{"order.cancelled", model.OutcomeCancelled},
	}

	for _, tc := range cases {
		t.Run(tc.eventType, func(t *testing.T) {
			reconciler := &fakeReconciler{}
			svc := NewWebhookService(reconciler, "", "")

			payload := []byte(fmt.Sprintf(`{"eventType":%q,"order":{"orderId":"order_1"}}`, tc.eventType))
			err := svc.HandleCashfree(context.Background(), payload, "")
			require.NoError(t, err)
			require.Len(t, reconciler.calls, 1)
			assert.Equal(t, tc.outcome, reconciler.calls[0].outcome)
			assert.Equal(t, tc.eventType, reconciler.calls[0].eventType)
		})
	}
}

func TestHandleCashfreeSnakeCaseKeys(t *testing.T) {
	reconciler := &fakeReconciler{}
	svc := NewWebhookService(reconciler, "", "")

	payload := []byte(`{"event_type":"order.paid","order":{"order_id":"order_2"}}`)
	err := svc.HandleCashfree(context.Background(), payload, "")
	require.NoError(t, err)
	require.Len(t, reconciler.calls, 1)
	assert.Equal(t, "order_2", reconciler.calls[0].providerPaymentID)
}

func TestHandleCashfreeMissingOrderID(t *testing.T) {
	reconciler := &fakeReconciler{}
	svc := NewWebhookService(reconciler, "", "")

	err := svc.HandleCashfree(context.Background(), []byte(`{"eventType":"order.paid","order":{}}`), "")
	assert.ErrorIs(t, err, model.ErrMalformedPayload)
	assert.Empty(t, reconciler.calls)
}

func TestHandleCashfreeIgnoresUnknownEvents(t *testing.T) {
	reconciler := &fakeReconciler{}
	svc := NewWebhookService(reconciler, "", "")

	err := svc.HandleCashfree(context.Background(), []byte(`{"eventType":"order.refund","order":{"orderId":"order_1"}}`), "")
	require.NoError(t, err)
	assert.Empty(t, reconciler.calls)
}
