package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

type CreatePricingPlanRequest struct {
	Duration int             `json:"duration" binding:"required"`
	Price    decimal.Decimal `json:"price" binding:"required"`
	Currency string          `json:"currency" binding:"required"`
	Country  *string         `json:"country,omitempty"`
	IsActive bool            `json:"is_active"`
}

func (r CreatePricingPlanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Duration,
			validation.Required.Error("duration is required"),
			validation.Min(1), validation.Max(12),
		),
		validation.Field(&r.Price,
			validation.Required.Error("price is required"),
			validation.By(positiveDecimal),
		),
		validation.Field(&r.Currency,
			validation.Required,
			is.CurrencyCode.Error("currency must be an ISO 4217 code"),
		),
		validation.Field(&r.Country,
			validation.When(r.Country != nil, validation.Length(2, 2).Error("country must be a 2 letter code")),
		),
	)
}

type UpdatePricingPlanRequest struct {
	Duration *int             `json:"duration,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Currency *string          `json:"currency,omitempty"`
	Country  *string          `json:"country,omitempty"`
	IsActive *bool            `json:"is_active,omitempty"`
}

func (r UpdatePricingPlanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Duration,
			validation.When(r.Duration != nil, validation.Min(1), validation.Max(12)),
		),
		validation.Field(&r.Price,
			validation.When(r.Price != nil, validation.By(positiveDecimalPtr)),
		),
		validation.Field(&r.Currency,
			validation.When(r.Currency != nil, is.CurrencyCode),
		),
		validation.Field(&r.Country,
			validation.When(r.Country != nil, validation.Length(2, 2)),
		),
	)
}

func positiveDecimal(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok || !d.IsPositive() {
		return validation.NewError("validation_positive", "must be a positive amount")
	}
	return nil
}

func positiveDecimalPtr(value interface{}) error {
	d, ok := value.(*decimal.Decimal)
	if !ok || d == nil || !d.IsPositive() {
		return validation.NewError("validation_positive", "must be a positive amount")
	}
	return nil
}

// PlanDTO is the public carousel shape.
type PlanDTO struct {
	ID       string          `json:"id"`
	Duration int             `json:"duration"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Country  *string         `json:"country"`
}

func (p *PricingPlan) ToDTO() PlanDTO {
	return PlanDTO{
		ID:       p.ID.String(),
		Duration: p.Duration,
		Price:    p.Price,
		Currency: p.Currency,
		Country:  p.Country,
	}
}

// CarouselResponse is keyed to the caller's resolved location.
type CarouselResponse struct {
	PricingPlans []PlanDTO `json:"pricing_plans"`
	UserCountry  string    `json:"user_country"`
	UserCurrency string    `json:"user_currency"`
}

// ListFilter narrows the admin listing.
type ListFilter struct {
	Country  *string
	IsActive *bool
}
