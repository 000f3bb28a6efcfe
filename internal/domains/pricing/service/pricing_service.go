package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"internvault-backend/internal/domains/pricing/model"
	"internvault-backend/internal/domains/pricing/repository"
	"internvault-backend/internal/infrastructure/cache"
	"internvault-backend/internal/infrastructure/geo"
	"internvault-backend/pkg/logger"
)

const carouselCacheTTL = 10 * time.Minute

// currencyByCountry covers the countries we run localized pricing for.
var currencyByCountry = map[string]string{
	"IN": "INR",
	"US": "USD",
	"GB": "GBP",
	"EU": "EUR",
	"CA": "CAD",
	"AU": "AUD",
	"NP": "NPR",
	"PK": "PKR",
	"ID": "IDR",
}

// =====================================================
// PRICING SERVICE IMPLEMENTATION
// =====================================================

type pricingService struct {
	pricingRepo repository.PricingRepository
	locator     geo.Locator
	cache       cache.Cache
}

func NewPricingService(
	pricingRepo repository.PricingRepository,
	locator geo.Locator,
	c cache.Cache,
) PricingService {
	return &pricingService{
		pricingRepo: pricingRepo,
		locator:     locator,
		cache:       c,
	}
}

func (s *pricingService) GetCarousel(ctx context.Context, clientIP, manualCountry string) (*model.CarouselResponse, error) {
	// Step 1: Resolve country, manual override first
	var country, currency string
	if manualCountry != "" {
		country = manualCountry
		currency = CurrencyForCountry(manualCountry)
	} else {
		var err error
		country, currency, err = s.locator.CountryForIP(ctx, clientIP)
		if err != nil {
			country, currency = "US", "USD"
		}
	}

	// Step 2: Serve from cache when possible
	cacheKey := "pricing:carousel:" + country
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var resp model.CarouselResponse
		if json.Unmarshal([]byte(cached), &resp) == nil {
			return &resp, nil
		}
	}

	// Step 3: Load plans; country specific rows win over defaults
	plans, err := s.pricingRepo.ListActiveForCountry(ctx, country)
	if err != nil {
		return nil, err
	}

	var countryPlans, defaultPlans []model.PlanDTO
	for i := range plans {
		if plans[i].IsDefault() {
			defaultPlans = append(defaultPlans, plans[i].ToDTO())
		} else {
			countryPlans = append(countryPlans, plans[i].ToDTO())
		}
	}

	final := countryPlans
	if len(final) == 0 {
		final = defaultPlans
	}

	resp := &model.CarouselResponse{
		PricingPlans: final,
		UserCountry:  country,
		UserCurrency: currency,
	}

	// Step 4: Cache best effort
	if data, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(data), carouselCacheTTL); err != nil {
			logger.Warn("Failed to cache pricing carousel", map[string]interface{}{
				"country": country,
			})
		}
	}

	return resp, nil
}

func (s *pricingService) PlanFor(ctx context.Context, currency string, duration int) (*model.PricingPlan, error) {
	return s.pricingRepo.GetActivePlan(ctx, currency, duration)
}

func (s *pricingService) ListPlans(ctx context.Context, filter model.ListFilter) ([]model.PricingPlan, error) {
	return s.pricingRepo.List(ctx, filter)
}

func (s *pricingService) CreatePlan(ctx context.Context, req model.CreatePricingPlanRequest) (*model.PricingPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	plan := &model.PricingPlan{
		ID:       uuid.New(),
		Duration: req.Duration,
		Price:    req.Price,
		Currency: req.Currency,
		Country:  req.Country,
		IsActive: req.IsActive,
	}
	if err := s.pricingRepo.Create(ctx, plan); err != nil {
		return nil, err
	}

	s.invalidateCarousel(ctx, plan.Country)
	return plan, nil
}

func (s *pricingService) UpdatePlan(ctx context.Context, id uuid.UUID, req model.UpdatePricingPlanRequest) (*model.PricingPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	plan, err := s.pricingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Duration != nil {
		plan.Duration = *req.Duration
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.Currency != nil {
		plan.Currency = *req.Currency
	}
	if req.Country != nil {
		plan.Country = req.Country
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}

	if err := s.pricingRepo.Update(ctx, plan); err != nil {
		return nil, err
	}

	s.invalidateCarousel(ctx, plan.Country)
	return plan, nil
}

func (s *pricingService) DeletePlan(ctx context.Context, id uuid.UUID) error {
	plan, err := s.pricingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.pricingRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCarousel(ctx, plan.Country)
	return nil
}

func (s *pricingService) invalidateCarousel(ctx context.Context, country *string) {
	if country == nil {
		// Default plans feed every country; rely on the short TTL.
		return
	}
	if err := s.cache.Delete(ctx, "pricing:carousel:"+*country); err != nil {
		logger.Warn("Failed to invalidate pricing carousel cache", map[string]interface{}{
			"country": *country,
		})
	}
}

// CurrencyForCountry returns the display currency for a country code.
func CurrencyForCountry(country string) string {
	if currency, ok := currencyByCountry[country]; ok {
		return currency
	}
	return "USD"
}
