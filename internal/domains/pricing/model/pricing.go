package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingPlan maps 1:1 to the pricing_plans table. A NULL country
// marks the default plan set used when no country specific row exists.
type PricingPlan struct {
	ID       uuid.UUID       `db:"id" json:"id"`
	Duration int             `db:"duration" json:"duration"` // months
	Price    decimal.Decimal `db:"price" json:"price"`
	Currency string          `db:"currency" json:"currency"`
	Country  *string         `db:"country" json:"country"`
	IsActive bool            `db:"is_active" json:"is_active"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsDefault reports whether the plan belongs to the fallback set.
func (p *PricingPlan) IsDefault() bool {
	return p.Country == nil
}
