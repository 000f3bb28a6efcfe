package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appmodel "internvault-backend/internal/domains/application/model"
	"internvault-backend/internal/domains/payment/gateway"
	"internvault-backend/internal/domains/payment/model"
)

type checkoutFixture struct {
	paymentRepo *fakePaymentRepo
	appRepo     *fakeAppRepo
	gw          *fakeGateway
	service     PaymentService
}

func newCheckoutFixture(app *appmodel.Application, gwName model.Gateway) *checkoutFixture {
	f := &checkoutFixture{
		paymentRepo: &fakePaymentRepo{},
		appRepo:     newFakeAppRepo(app),
		gw:          &fakeGateway{name: gwName},
	}
	f.service = NewPaymentService(f.paymentRepo, f.appRepo, []gateway.Gateway{f.gw})
	return f
}

func TestCreateCheckoutPersistsPendingPayment(t *testing.T) {
	app := testApplication()
	f := newCheckoutFixture(app, model.GatewayStripe)

	resp, err := f.service.CreateCheckout(context.Background(), app.UserID, app.ID, model.GatewayStripe)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/1", resp.URL)
	assert.Equal(t, model.GatewayStripe, resp.Gateway)
	assert.WithinDuration(t, time.Now().Add(model.IntentTTL), resp.ExpiresAt, 2*time.Second)

	require.Len(t, f.paymentRepo.payments, 1)
	stored := f.paymentRepo.payments[0]
	assert.Equal(t, app.ID, stored.ApplicationID)
	assert.Equal(t, model.PaymentPending, stored.Status)
	assert.True(t, stored.Amount.Equal(app.Price))
	assert.Equal(t, app.Currency, stored.Currency)
}

func TestCreateCheckoutReusesActiveIntent(t *testing.T) {
	app := testApplication()
	f := newCheckoutFixture(app, model.GatewayStripe)

	first, err := f.service.CreateCheckout(context.Background(), app.UserID, app.ID, model.GatewayStripe)
	require.NoError(t, err)
	second, err := f.service.CreateCheckout(context.Background(), app.UserID, app.ID, model.GatewayStripe)
	require.NoError(t, err)

	assert.Equal(t, first.URL, second.URL)
	assert.Equal(t, first.GatewayPaymentID, second.GatewayPaymentID)
	assert.Equal(t, 1, f.gw.calls)
	assert.Len(t, f.paymentRepo.payments, 1)
}

func TestCreateCheckoutRejectsForeignApplication(t *testing.T) {
	app := testApplication()
	f := newCheckoutFixture(app, model.GatewayStripe)

	_, err := f.service.CreateCheckout(context.Background(), uuid.New(), app.ID, model.GatewayStripe)
	assert.ErrorIs(t, err, appmodel.ErrApplicationNotFound)
	assert.Equal(t, 0, f.gw.calls)
}

func TestCreateCheckoutRejectsNonPendingApplication(t *testing.T) {
	app := testApplication()
	app.Status = appmodel.StatusInProgress
	f := newCheckoutFixture(app, model.GatewayStripe)

	_, err := f.service.CreateCheckout(context.Background(), app.UserID, app.ID, model.GatewayStripe)
	assert.ErrorIs(t, err, model.ErrApplicationNotPending)
}

func TestCreateCheckoutRejectsPaidApplication(t *testing.T) {
	app := testApplication()
	app.IsPaid = true
	f := newCheckoutFixture(app, model.GatewayStripe)

	_, err := f.service.CreateCheckout(context.Background(), app.UserID, app.ID, model.GatewayStripe)
	assert.ErrorIs(t, err, model.ErrAlreadyPaid)
}

func TestCreateCheckoutUnknownGateway(t *testing.T) {
	app := testApplication()
	f := newCheckoutFixture(app, model.GatewayStripe)

	_, err := f.service.CreateCheckout(context.Background(), app.UserID, app.ID, model.GatewayCashfree)
	assert.ErrorIs(t, err, model.ErrGatewayUnavailable)
}

func TestCreateCheckoutGatewayFailureLeavesNoRow(t *testing.T) {
	app := testApplication()
	f := newCheckoutFixture(app, model.GatewayStripe)
	f.gw.err = errors.New("provider is down")

	_, err := f.service.CreateCheckout(context.Background(), app.UserID, app.ID, model.GatewayStripe)
	require.Error(t, err)
	assert.Empty(t, f.paymentRepo.payments)
}

func TestCreateCheckoutClearsExpiredSlot(t *testing.T) {
	app := testApplication()
	f := newCheckoutFixture(app, model.GatewayStripe)

	// An expired row still holds the one-PENDING-per-gateway slot until
	// the sweep runs. A new checkout must clear it and succeed.
	stale := pendingPayment(app, model.GatewayStripe, "cs_stale")
	stale.ExpiresAt = time.Now().Add(-time.Minute)
	f.paymentRepo.payments = append(f.paymentRepo.payments, stale)

	resp, err := f.service.CreateCheckout(context.Background(), app.UserID, app.ID, model.GatewayStripe)
	require.NoError(t, err)
	assert.Equal(t, 1, f.gw.calls)
	assert.NotEqual(t, "cs_stale", resp.GatewayPaymentID)

	swept, err := f.paymentRepo.GetByGatewayPaymentID(context.Background(), model.GatewayStripe, "cs_stale")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCancelled, swept.Status)
}

func TestCreateCheckoutDifferentGatewaysCoexist(t *testing.T) {
	app := testApplication()
	paymentRepo := &fakePaymentRepo{}
	appRepo := newFakeAppRepo(app)
	stripeGw := &fakeGateway{name: model.GatewayStripe}
	cashfreeGw := &fakeGateway{name: model.GatewayCashfree}
	svc := NewPaymentService(paymentRepo, appRepo, []gateway.Gateway{stripeGw, cashfreeGw})

	_, err := svc.CreateCheckout(context.Background(), app.UserID, app.ID, model.GatewayStripe)
	require.NoError(t, err)
	_, err = svc.CreateCheckout(context.Background(), app.UserID, app.ID, model.GatewayCashfree)
	require.NoError(t, err)

	assert.Len(t, paymentRepo.payments, 2)
}

func TestListByApplicationReturnsDTOs(t *testing.T) {
	app := testApplication()
	f := newCheckoutFixture(app, model.GatewayStripe)

	_, err := f.service.CreateCheckout(context.Background(), app.UserID, app.ID, model.GatewayStripe)
	require.NoError(t, err)

	dtos, err := f.service.ListByApplication(context.Background(), app.ID)
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, app.ID.String(), dtos[0].ApplicationID)
	assert.Equal(t, model.PaymentPending, dtos[0].Status)
}

func TestExpireStalePaymentsCountsOnlyLapsed(t *testing.T) {
	app := testApplication()
	f := newCheckoutFixture(app, model.GatewayStripe)

	stale := pendingPayment(app, model.GatewayStripe, "cs_stale")
	stale.ExpiresAt = time.Now().Add(-time.Minute)
	fresh := pendingPayment(app, model.GatewayCashfree, "order_fresh")
	f.paymentRepo.payments = append(f.paymentRepo.payments, stale, fresh)

	n, err := f.service.ExpireStalePayments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	kept, err := f.paymentRepo.GetByGatewayPaymentID(context.Background(), model.GatewayCashfree, "order_fresh")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, kept.Status)
}
