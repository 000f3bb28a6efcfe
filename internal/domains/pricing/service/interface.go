package service

import (
	"context"

	"github.com/google/uuid"

	"internvault-backend/internal/domains/pricing/model"
)

type PricingService interface {
	// GetCarousel resolves the caller's country (manual override wins
	// over geo lookup) and returns the plan set priced for it.
	GetCarousel(ctx context.Context, clientIP, manualCountry string) (*model.CarouselResponse, error)

	// PlanFor prices an application for a currency and duration.
	PlanFor(ctx context.Context, currency string, duration int) (*model.PricingPlan, error)

	// Admin CRUD
	ListPlans(ctx context.Context, filter model.ListFilter) ([]model.PricingPlan, error)
	CreatePlan(ctx context.Context, req model.CreatePricingPlanRequest) (*model.PricingPlan, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, req model.UpdatePricingPlanRequest) (*model.PricingPlan, error)
	DeletePlan(ctx context.Context, id uuid.UUID) error
}
