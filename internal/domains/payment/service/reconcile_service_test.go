package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appmodel "internvault-backend/internal/domains/application/model"
	"internvault-backend/internal/domains/payment/gateway"
	"internvault-backend/internal/domains/payment/model"
	"internvault-backend/internal/infrastructure/email"
)

// =====================================================
// FAKES
// =====================================================

type fakePaymentRepo struct {
	payments []*model.Payment
}

func (f *fakePaymentRepo) Create(_ context.Context, p *model.Payment) error {
	for _, existing := range f.payments {
		if existing.ApplicationID == p.ApplicationID && existing.Gateway == p.Gateway && existing.Status == model.PaymentPending {
			return model.ErrActivePaymentExists
		}
	}
	cp := *p
	f.payments = append(f.payments, &cp)
	return nil
}

func (f *fakePaymentRepo) GetActivePending(_ context.Context, applicationID uuid.UUID, gw model.Gateway) (*model.Payment, error) {
	for i := len(f.payments) - 1; i >= 0; i-- {
		p := f.payments[i]
		if p.ApplicationID == applicationID && p.Gateway == gw && p.Status == model.PaymentPending && p.ExpiresAt.After(time.Now()) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, model.ErrPaymentNotFound
}

func (f *fakePaymentRepo) GetByGatewayPaymentID(_ context.Context, gw model.Gateway, gatewayPaymentID string) (*model.Payment, error) {
	for _, p := range f.payments {
		if p.Gateway == gw && p.GatewayPaymentID == gatewayPaymentID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, model.ErrPaymentNotFound
}

func (f *fakePaymentRepo) ListByApplicationID(_ context.Context, applicationID uuid.UUID) ([]*model.Payment, error) {
	var out []*model.Payment
	for _, p := range f.payments {
		if p.ApplicationID == applicationID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) UpdateStatusWithTx(_ context.Context, _ pgx.Tx, id uuid.UUID, status model.PaymentStatus) error {
	for _, p := range f.payments {
		if p.ID == id {
			p.Status = status
			return nil
		}
	}
	return model.ErrPaymentNotFound
}

func (f *fakePaymentRepo) CancelExpired(_ context.Context) (int64, error) {
	var n int64
	for _, p := range f.payments {
		if p.Status == model.PaymentPending && !p.ExpiresAt.After(time.Now()) {
			p.Status = model.PaymentCancelled
			n++
		}
	}
	return n, nil
}

type fakeEventRepo struct {
	events []*model.PaymentEvent
}

func (f *fakeEventRepo) AppendWithTx(_ context.Context, _ pgx.Tx, event *model.PaymentEvent) error {
	cp := *event
	cp.ReceivedAt = time.Now()
	f.events = append(f.events, &cp)
	return nil
}

func (f *fakeEventRepo) ListByPaymentID(_ context.Context, paymentID uuid.UUID) ([]*model.PaymentEvent, error) {
	var out []*model.PaymentEvent
	for _, e := range f.events {
		if e.PaymentID == paymentID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeAppRepo struct {
	apps map[uuid.UUID]*appmodel.Application
}

func newFakeAppRepo(apps ...*appmodel.Application) *fakeAppRepo {
	r := &fakeAppRepo{apps: make(map[uuid.UUID]*appmodel.Application)}
	for _, a := range apps {
		cp := *a
		r.apps[a.ID] = &cp
	}
	return r
}

func (f *fakeAppRepo) Create(_ context.Context, app *appmodel.Application) error {
	cp := *app
	f.apps[app.ID] = &cp
	return nil
}

func (f *fakeAppRepo) GetByID(_ context.Context, id uuid.UUID) (*appmodel.Application, error) {
	app, ok := f.apps[id]
	if !ok {
		return nil, appmodel.ErrApplicationNotFound
	}
	cp := *app
	return &cp, nil
}

func (f *fakeAppRepo) GetByIDAndUserID(_ context.Context, id, userID uuid.UUID) (*appmodel.Application, error) {
	app, ok := f.apps[id]
	if !ok || app.UserID != userID {
		return nil, appmodel.ErrApplicationNotFound
	}
	cp := *app
	return &cp, nil
}

func (f *fakeAppRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]appmodel.Application, error) {
	var out []appmodel.Application
	for _, a := range f.apps {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAppRepo) ListAll(_ context.Context) ([]appmodel.Application, error) {
	var out []appmodel.Application
	for _, a := range f.apps {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAppRepo) HasActiveApplication(_ context.Context, userID uuid.UUID) (bool, error) {
	for _, a := range f.apps {
		if a.UserID == userID && a.Status.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAppRepo) UpdateStatus(_ context.Context, id uuid.UUID, status appmodel.Status) error {
	app, ok := f.apps[id]
	if !ok {
		return appmodel.ErrApplicationNotFound
	}
	app.Status = status
	return nil
}

func (f *fakeAppRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.apps, id)
	return nil
}

func (f *fakeAppRepo) GetByIDWithTx(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*appmodel.Application, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeAppRepo) UpdateWithTx(_ context.Context, _ pgx.Tx, app *appmodel.Application) error {
	if _, ok := f.apps[app.ID]; !ok {
		return appmodel.ErrApplicationNotFound
	}
	cp := *app
	f.apps[app.ID] = &cp
	return nil
}

type fakeTxManager struct {
	commits   int
	rollbacks int
}

func (f *fakeTxManager) BeginTx(_ context.Context) (pgx.Tx, error) { return nil, nil }
func (f *fakeTxManager) CommitTx(_ context.Context, _ pgx.Tx) error {
	f.commits++
	return nil
}
func (f *fakeTxManager) RollbackTx(_ context.Context, _ pgx.Tx) error {
	f.rollbacks++
	return nil
}

type fakeEnqueuer struct {
	verification int
	reset        int
	success      int
	failed       int
	certificate  int
}

func (f *fakeEnqueuer) EnqueueVerificationEmail(_ context.Context, _ email.VerificationEmailData) error {
	f.verification++
	return nil
}
func (f *fakeEnqueuer) EnqueuePasswordResetEmail(_ context.Context, _ email.PasswordResetData) error {
	f.reset++
	return nil
}
func (f *fakeEnqueuer) EnqueuePaymentSuccessEmail(_ context.Context, _ email.PaymentSuccessData) error {
	f.success++
	return nil
}
func (f *fakeEnqueuer) EnqueuePaymentFailedEmail(_ context.Context, _ email.PaymentFailedData) error {
	f.failed++
	return nil
}
func (f *fakeEnqueuer) EnqueueProjectCertificateEmail(_ context.Context, _ email.ProjectCertificateData) error {
	f.certificate++
	return nil
}

type fakeGateway struct {
	name  model.Gateway
	calls int
	err   error
}

func (g *fakeGateway) Name() model.Gateway { return g.name }

func (g *fakeGateway) CreateIntent(_ context.Context, _ *appmodel.Application) (*gateway.Intent, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &gateway.Intent{
		RedirectURL:       fmt.Sprintf("https://pay.example/%d", g.calls),
		ProviderPaymentID: fmt.Sprintf("ref_%d", g.calls),
	}, nil
}

// =====================================================
// FIXTURES
// =====================================================

func testApplication() *appmodel.Application {
	return &appmodel.Application{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		FullName:       "Asha Rao",
		ContactEmail:   "asha@example.com",
		WhatsappNumber: "+919876543210",
		Role:           "Backend Developer",
		Domain:         "Web Development",
		Duration:       2,
		Price:          decimal.NewFromInt(170),
		Currency:       "USD",
		Status:         appmodel.StatusPending,
	}
}

func pendingPayment(app *appmodel.Application, gw model.Gateway, ref string) *model.Payment {
	return &model.Payment{
		ID:               uuid.New(),
		ApplicationID:    app.ID,
		Amount:           app.Price,
		Currency:         app.Currency,
		Gateway:          gw,
		GatewayPaymentID: ref,
		Status:           model.PaymentPending,
		CheckoutURL:      "https://pay.example/1",
		ExpiresAt:        time.Now().Add(model.IntentTTL),
	}
}

type reconcileFixture struct {
	paymentRepo *fakePaymentRepo
	eventRepo   *fakeEventRepo
	appRepo     *fakeAppRepo
	txManager   *fakeTxManager
	enqueuer    *fakeEnqueuer
	reconciler  Reconciler
}

func newReconcileFixture(app *appmodel.Application, payments ...*model.Payment) *reconcileFixture {
	f := &reconcileFixture{
		paymentRepo: &fakePaymentRepo{},
		eventRepo:   &fakeEventRepo{},
		appRepo:     newFakeAppRepo(app),
		txManager:   &fakeTxManager{},
		enqueuer:    &fakeEnqueuer{},
	}
	for _, p := range payments {
		cp := *p
		f.paymentRepo.payments = append(f.paymentRepo.payments, &cp)
	}
	f.reconciler = NewReconcileService(f.paymentRepo, f.eventRepo, f.appRepo, f.txManager, f.enqueuer)
	return f
}

// =====================================================
// TESTS
// =====================================================

func TestReconcilePaidStripeCompletesApplication(t *testing.T) {
	app := testApplication()
	payment := pendingPayment(app, model.GatewayStripe, "cs_test_1")
	f := newReconcileFixture(app, payment)

	err := f.reconciler.Reconcile(context.Background(), model.GatewayStripe, "cs_test_1", "checkout.session.completed", model.OutcomePaid, []byte(`{}`))
	require.NoError(t, err)

	got, err := f.paymentRepo.GetByGatewayPaymentID(context.Background(), model.GatewayStripe, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, got.Status)

	updated, err := f.appRepo.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsPaid)
	assert.Equal(t, appmodel.StatusCompleted, updated.Status)

	assert.Equal(t, 1, f.enqueuer.success)
	assert.Equal(t, 0, f.enqueuer.failed)
	assert.Len(t, f.eventRepo.events, 1)
	assert.Equal(t, 1, f.txManager.commits)
}

func TestReconcilePaidCashfreeMovesToInProgress(t *testing.T) {
	app := testApplication()
	payment := pendingPayment(app, model.GatewayCashfree, "order_1")
	f := newReconcileFixture(app, payment)

	err := f.reconciler.Reconcile(context.Background(), model.GatewayCashfree, "order_1", "order.paid", model.OutcomePaid, []byte(`{}`))
	require.NoError(t, err)

	updated, err := f.appRepo.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsPaid)
	assert.Equal(t, appmodel.StatusInProgress, updated.Status)
	assert.Equal(t, 1, f.enqueuer.success)
}

func TestReconcileRedeliveryIsIdempotent(t *testing.T) {
	app := testApplication()
	payment := pendingPayment(app, model.GatewayStripe, "cs_test_1")
	f := newReconcileFixture(app, payment)

	for i := 0; i < 3; i++ {
		err := f.reconciler.Reconcile(context.Background(), model.GatewayStripe, "cs_test_1", "checkout.session.completed", model.OutcomePaid, []byte(`{}`))
		require.NoError(t, err)
	}

	// One state change, one email; every delivery still lands in the
	// audit log.
	got, err := f.paymentRepo.GetByGatewayPaymentID(context.Background(), model.GatewayStripe, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, got.Status)
	assert.Equal(t, 1, f.enqueuer.success)
	assert.Len(t, f.eventRepo.events, 3)
}

func TestReconcileFailedLeavesApplicationUntouched(t *testing.T) {
	app := testApplication()
	payment := pendingPayment(app, model.GatewayCashfree, "order_1")
	f := newReconcileFixture(app, payment)

	err := f.reconciler.Reconcile(context.Background(), model.GatewayCashfree, "order_1", "order.failed", model.OutcomeFailed, []byte(`{}`))
	require.NoError(t, err)

	got, err := f.paymentRepo.GetByGatewayPaymentID(context.Background(), model.GatewayCashfree, "order_1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, got.Status)

	updated, err := f.appRepo.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsPaid)
	assert.Equal(t, appmodel.StatusPending, updated.Status)

	assert.Equal(t, 1, f.enqueuer.failed)
	assert.Equal(t, 0, f.enqueuer.success)
}

func TestReconcileExpiredCancelsWithoutEmail(t *testing.T) {
	app := testApplication()
	payment := pendingPayment(app, model.GatewayCashfree, "order_1")
	f := newReconcileFixture(app, payment)

	err := f.reconciler.Reconcile(context.Background(), model.GatewayCashfree, "order_1", "order.expired", model.OutcomeExpired, []byte(`{}`))
	require.NoError(t, err)

	got, err := f.paymentRepo.GetByGatewayPaymentID(context.Background(), model.GatewayCashfree, "order_1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCancelled, got.Status)
	assert.Equal(t, 0, f.enqueuer.success)
	assert.Equal(t, 0, f.enqueuer.failed)
}

func TestReconcileUnlocksInternshipCertificateAfterProjectCertificate(t *testing.T) {
	app := testApplication()
	app.HasProjectCertificate = true
	payment := pendingPayment(app, model.GatewayPayPal, "order_pp_1")
	f := newReconcileFixture(app, payment)

	err := f.reconciler.Reconcile(context.Background(), model.GatewayPayPal, "order_pp_1", "CHECKOUT.ORDER.APPROVED", model.OutcomePaid, []byte(`{}`))
	require.NoError(t, err)

	updated, err := f.appRepo.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.True(t, updated.HasInternshipCertificate)
}

func TestReconcileWithoutProjectCertificateKeepsInternshipLocked(t *testing.T) {
	app := testApplication()
	payment := pendingPayment(app, model.GatewayPayPal, "order_pp_1")
	f := newReconcileFixture(app, payment)

	err := f.reconciler.Reconcile(context.Background(), model.GatewayPayPal, "order_pp_1", "CHECKOUT.ORDER.APPROVED", model.OutcomePaid, []byte(`{}`))
	require.NoError(t, err)

	updated, err := f.appRepo.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsPaid)
	assert.False(t, updated.HasInternshipCertificate)
}

func TestReconcileUnknownReferenceFails(t *testing.T) {
	app := testApplication()
	f := newReconcileFixture(app)

	err := f.reconciler.Reconcile(context.Background(), model.GatewayStripe, "cs_unknown", "checkout.session.completed", model.OutcomePaid, []byte(`{}`))
	assert.ErrorIs(t, err, model.ErrPaymentNotFound)
	assert.Empty(t, f.eventRepo.events)
	assert.Equal(t, 0, f.enqueuer.success)
}
