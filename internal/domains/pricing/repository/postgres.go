package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"internvault-backend/internal/domains/pricing/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresPricingRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPricingRepository(pool *pgxpool.Pool) PricingRepository {
	return &postgresPricingRepository{pool: pool}
}

const planColumns = `id, duration, price, currency, country, is_active, created_at, updated_at`

func scanPlan(row pgx.Row) (*model.PricingPlan, error) {
	var p model.PricingPlan
	err := row.Scan(
		&p.ID,
		&p.Duration,
		&p.Price,
		&p.Currency,
		&p.Country,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to scan pricing plan: %w", err)
	}
	return &p, nil
}

func collectPlans(rows pgx.Rows) ([]model.PricingPlan, error) {
	defer rows.Close()

	var plans []model.PricingPlan
	for rows.Next() {
		var p model.PricingPlan
		if err := rows.Scan(
			&p.ID,
			&p.Duration,
			&p.Price,
			&p.Currency,
			&p.Country,
			&p.IsActive,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pricing plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r *postgresPricingRepository) ListActiveForCountry(ctx context.Context, country string) ([]model.PricingPlan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM pricing_plans
		WHERE is_active = TRUE AND (country = $1 OR country IS NULL)
		ORDER BY duration ASC
	`

	rows, err := r.pool.Query(ctx, query, country)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing plans: %w", err)
	}
	return collectPlans(rows)
}

func (r *postgresPricingRepository) GetActivePlan(ctx context.Context, currency string, duration int) (*model.PricingPlan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM pricing_plans
		WHERE is_active = TRUE
		  AND duration = $2
		  AND currency = $1
		ORDER BY country NULLS LAST
		LIMIT 1
	`

	plan, err := scanPlan(r.pool.QueryRow(ctx, query, currency, duration))
	if err != nil {
		if errors.Is(err, model.ErrPlanNotFound) {
			return nil, model.ErrNoPlanForDuration
		}
		return nil, err
	}
	return plan, nil
}

func (r *postgresPricingRepository) List(ctx context.Context, filter model.ListFilter) ([]model.PricingPlan, error) {
	var (
		conds []string
		args  []interface{}
	)

	if filter.Country != nil {
		args = append(args, *filter.Country)
		conds = append(conds, fmt.Sprintf("country = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conds = append(conds, fmt.Sprintf("is_active = $%d", len(args)))
	}

	query := `SELECT ` + planColumns + ` FROM pricing_plans`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY country ASC NULLS FIRST, duration ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing plans: %w", err)
	}
	return collectPlans(rows)
}

func (r *postgresPricingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PricingPlan, error) {
	query := `SELECT ` + planColumns + ` FROM pricing_plans WHERE id = $1`
	return scanPlan(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresPricingRepository) Create(ctx context.Context, plan *model.PricingPlan) error {
	query := `
		INSERT INTO pricing_plans (id, duration, price, currency, country, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		plan.ID,
		plan.Duration,
		plan.Price,
		plan.Currency,
		plan.Country,
		plan.IsActive,
	).Scan(&plan.CreatedAt, &plan.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create pricing plan: %w", err)
	}
	return nil
}

func (r *postgresPricingRepository) Update(ctx context.Context, plan *model.PricingPlan) error {
	query := `
		UPDATE pricing_plans
		SET duration = $2, price = $3, currency = $4, country = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		plan.ID,
		plan.Duration,
		plan.Price,
		plan.Currency,
		plan.Country,
		plan.IsActive,
	).Scan(&plan.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrPlanNotFound
		}
		return fmt.Errorf("failed to update pricing plan: %w", err)
	}
	return nil
}

func (r *postgresPricingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pricing_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pricing plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPlanNotFound
	}
	return nil
}
