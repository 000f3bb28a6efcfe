package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internvault-backend/internal/domains/pricing/model"
	"internvault-backend/internal/infrastructure/cache"
)

// =====================================================
// FAKES
// =====================================================

type fakePricingRepo struct {
	plans []model.PricingPlan
}

func (f *fakePricingRepo) ListActiveForCountry(_ context.Context, country string) ([]model.PricingPlan, error) {
	var out []model.PricingPlan
	for _, p := range f.plans {
		if !p.IsActive {
			continue
		}
		if p.Country == nil || *p.Country == country {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePricingRepo) GetActivePlan(_ context.Context, currency string, duration int) (*model.PricingPlan, error) {
	for i := range f.plans {
		p := f.plans[i]
		if p.IsActive && p.Currency == currency && p.Duration == duration {
			return &p, nil
		}
	}
	return nil, model.ErrNoPlanForDuration
}

func (f *fakePricingRepo) List(_ context.Context, _ model.ListFilter) ([]model.PricingPlan, error) {
	return f.plans, nil
}

func (f *fakePricingRepo) GetByID(_ context.Context, id uuid.UUID) (*model.PricingPlan, error) {
	for i := range f.plans {
		if f.plans[i].ID == id {
			return &f.plans[i], nil
		}
	}
	return nil, model.ErrPlanNotFound
}

func (f *fakePricingRepo) Create(_ context.Context, plan *model.PricingPlan) error {
	f.plans = append(f.plans, *plan)
	return nil
}

func (f *fakePricingRepo) Update(_ context.Context, plan *model.PricingPlan) error {
	for i := range f.plans {
		if f.plans[i].ID == plan.ID {
			f.plans[i] = *plan
			return nil
		}
	}
	return model.ErrPlanNotFound
}

func (f *fakePricingRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range f.plans {
		if f.plans[i].ID == id {
			f.plans = append(f.plans[:i], f.plans[i+1:]...)
			return nil
		}
	}
	return model.ErrPlanNotFound
}

type fakeLocator struct {
	country  string
	currency string
	err      error
	calls    int
}

func (f *fakeLocator) CountryForIP(_ context.Context, _ string) (string, string, error) {
	f.calls++
	return f.country, f.currency, f.err
}

type fakeCache struct {
	entries map[string]string
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	v, ok := f.entries[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.entries[key] = value
	f.sets++
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

// =====================================================
// FIXTURES
// =====================================================

func strPtr(s string) *string { return &s }

func plan(duration int, price int64, currency string, country *string) model.PricingPlan {
	return model.PricingPlan{
		ID:       uuid.New(),
		Duration: duration,
		Price:    decimal.NewFromInt(price),
		Currency: currency,
		Country:  country,
		IsActive: true,
	}
}

// =====================================================
// CAROUSEL
// =====================================================

func TestGetCarouselManualCountryOverridesGeo(t *testing.T) {
	repo := &fakePricingRepo{plans: []model.PricingPlan{
		plan(1, 3500, "INR", strPtr("IN")),
		plan(1, 90, "USD", nil),
	}}
	locator := &fakeLocator{country: "US", currency: "USD"}
	svc := NewPricingService(repo, locator, newFakeCache())

	resp, err := svc.GetCarousel(context.Background(), "203.0.113.7", "IN")
	require.NoError(t, err)
	assert.Equal(t, "IN", resp.UserCountry)
	assert.Equal(t, "INR", resp.UserCurrency)
	assert.Equal(t, 0, locator.calls)
	require.Len(t, resp.PricingPlans, 1)
	assert.Equal(t, "INR", resp.PricingPlans[0].Currency)
}

func TestGetCarouselFallsBackToDefaultPlans(t *testing.T) {
	repo := &fakePricingRepo{plans: []model.PricingPlan{
		plan(1, 90, "USD", nil),
		plan(2, 170, "USD", nil),
	}}
	locator := &fakeLocator{country: "BR", currency: "USD"}
	svc := NewPricingService(repo, locator, newFakeCache())

	resp, err := svc.GetCarousel(context.Background(), "203.0.113.7", "")
	require.NoError(t, err)
	assert.Equal(t, "BR", resp.UserCountry)
	assert.Len(t, resp.PricingPlans, 2)
}

func TestGetCarouselGeoFailureDefaultsToUS(t *testing.T) {
	repo := &fakePricingRepo{plans: []model.PricingPlan{
		plan(1, 90, "USD", nil),
	}}
	locator := &fakeLocator{err: errors.New("lookup timed out")}
	svc := NewPricingService(repo, locator, newFakeCache())

	resp, err := svc.GetCarousel(context.Background(), "203.0.113.7", "")
	require.NoError(t, err)
	assert.Equal(t, "US", resp.UserCountry)
	assert.Equal(t, "USD", resp.UserCurrency)
}

func TestGetCarouselServedFromCache(t *testing.T) {
	repo := &fakePricingRepo{plans: []model.PricingPlan{
		plan(1, 3500, "INR", strPtr("IN")),
	}}
	c := newFakeCache()
	svc := NewPricingService(repo, &fakeLocator{country: "IN", currency: "INR"}, c)

	_, err := svc.GetCarousel(context.Background(), "203.0.113.7", "IN")
	require.NoError(t, err)
	require.Equal(t, 1, c.sets)

	// Drop the backing rows; the second call must still answer.
	repo.plans = nil
	resp, err := svc.GetCarousel(context.Background(), "203.0.113.7", "IN")
	require.NoError(t, err)
	assert.Len(t, resp.PricingPlans, 1)
	assert.Equal(t, 1, c.sets)
}

// =====================================================
// PLAN RESOLUTION AND ADMIN CRUD
// =====================================================

func TestPlanForUnknownDuration(t *testing.T) {
	svc := NewPricingService(&fakePricingRepo{}, &fakeLocator{}, newFakeCache())

	_, err := svc.PlanFor(context.Background(), "USD", 4)
	assert.ErrorIs(t, err, model.ErrNoPlanForDuration)
}

func TestCreatePlanInvalidatesCountryCache(t *testing.T) {
	repo := &fakePricingRepo{}
	c := newFakeCache()
	c.entries["pricing:carousel:IN"] = `{"pricing_plans":[]}`
	svc := NewPricingService(repo, &fakeLocator{}, c)

	created, err := svc.CreatePlan(context.Background(), model.CreatePricingPlanRequest{
		Duration: 1,
		Price:    decimal.NewFromInt(3500),
		Currency: "INR",
		Country:  strPtr("IN"),
		IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Duration)
	_, cached := c.entries["pricing:carousel:IN"]
	assert.False(t, cached)
}

func TestUpdatePlanAppliesPartialChanges(t *testing.T) {
	existing := plan(2, 170, "USD", nil)
	repo := &fakePricingRepo{plans: []model.PricingPlan{existing}}
	svc := NewPricingService(repo, &fakeLocator{}, newFakeCache())

	newPrice := decimal.NewFromInt(180)
	updated, err := svc.UpdatePlan(context.Background(), existing.ID, model.UpdatePricingPlanRequest{
		Price: &newPrice,
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, 2, updated.Duration)
	assert.Equal(t, "USD", updated.Currency)
}

func TestDeletePlanUnknownID(t *testing.T) {
	svc := NewPricingService(&fakePricingRepo{}, &fakeLocator{}, newFakeCache())

	err := svc.DeletePlan(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrPlanNotFound)
}

// =====================================================
// COUNTRY TO CURRENCY
// =====================================================

func TestCurrencyForCountry(t *testing.T) {
	assert.Equal(t, "INR", CurrencyForCountry("IN"))
	assert.Equal(t, "GBP", CurrencyForCountry("GB"))
	assert.Equal(t, "NPR", CurrencyForCountry("NP"))
	assert.Equal(t, "USD", CurrencyForCountry("ZZ"))
}
