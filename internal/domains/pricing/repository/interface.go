package repository

import (
	"context"

	"github.com/google/uuid"

	"internvault-backend/internal/domains/pricing/model"
)

type PricingRepository interface {
	// ListActiveForCountry returns active plans whose country matches or
	// is NULL, ordered by duration ascending.
	ListActiveForCountry(ctx context.Context, country string) ([]model.PricingPlan, error)
	// GetActivePlan resolves the plan used to price an application.
	// Country specific rows win over NULL country defaults.
	GetActivePlan(ctx context.Context, currency string, duration int) (*model.PricingPlan, error)

	List(ctx context.Context, filter model.ListFilter) ([]model.PricingPlan, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.PricingPlan, error)
	Create(ctx context.Context, plan *model.PricingPlan) error
	Update(ctx context.Context, plan *model.PricingPlan) error
	Delete(ctx context.Context, id uuid.UUID) error
}
