package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"internvault-backend/internal/domains/application/model"
)

// =====================================================
// POSTGRES APPLICATION REPOSITORY
// =====================================================

type postgresApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &postgresApplicationRepository{pool: pool}
}

const applicationColumns = `
	id, user_id, full_name, contact_email, whatsapp_number,
	role, domain, duration, price, currency,
	status, is_paid, has_project_certificate, has_internship_certificate,
	created_at, updated_at
`

func scanApplication(row pgx.Row) (*model.Application, error) {
	var a model.Application
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.FullName,
		&a.ContactEmail,
		&a.WhatsappNumber,
		&a.Role,
		&a.Domain,
		&a.Duration,
		&a.Price,
		&a.Currency,
		&a.Status,
		&a.IsPaid,
		&a.HasProjectCertificate,
		&a.HasInternshipCertificate,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to scan application: %w", err)
	}
	return &a, nil
}

func collectApplications(rows pgx.Rows) ([]model.Application, error) {
	defer rows.Close()

	var apps []model.Application
	for rows.Next() {
		var a model.Application
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.FullName,
			&a.ContactEmail,
			&a.WhatsappNumber,
			&a.Role,
			&a.Domain,
			&a.Duration,
			&a.Price,
			&a.Currency,
			&a.Status,
			&a.IsPaid,
			&a.HasProjectCertificate,
			&a.HasInternshipCertificate,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (r *postgresApplicationRepository) Create(ctx context.Context, app *model.Application) error {
	query := `
		INSERT INTO applications (
			id, user_id, full_name, contact_email, whatsapp_number,
			role, domain, duration, price, currency, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		app.ID,
		app.UserID,
		app.FullName,
		app.ContactEmail,
		app.WhatsappNumber,
		app.Role,
		app.Domain,
		app.Duration,
		app.Price,
		app.Currency,
		app.Status,
	).Scan(&app.CreatedAt, &app.UpdatedAt)

	if err != nil {
		// The partial unique index on active applications catches the
		// race two concurrent submits can slip past the pre-check.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrActiveApplicationExists
		}
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *postgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	return scanApplication(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresApplicationRepository) GetByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*model.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1 AND user_id = $2`
	return scanApplication(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *postgresApplicationRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Application, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM applications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return collectApplications(rows)
}

func (r *postgresApplicationRepository) ListAll(ctx context.Context) ([]model.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list all applications: %w", err)
	}
	return collectApplications(rows)
}

func (r *postgresApplicationRepository) HasActiveApplication(ctx context.Context, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM applications
			WHERE user_id = $1 AND status IN ('PENDING', 'IN_PROGRESS')
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check active application: %w", err)
	}
	return exists, nil
}

func (r *postgresApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) error {
	query := `UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrApplicationNotFound
	}
	return nil
}

func (r *postgresApplicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrApplicationNotFound
	}
	return nil
}

func (r *postgresApplicationRepository) GetByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Application, error) {
	// FOR UPDATE serializes concurrent webhook deliveries touching the
	// same application.
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1 FOR UPDATE`
	return scanApplication(tx.QueryRow(ctx, query, id))
}

func (r *postgresApplicationRepository) UpdateWithTx(ctx context.Context, tx pgx.Tx, app *model.Application) error {
	query := `
		UPDATE applications
		SET status = $2,
		    is_paid = $3,
		    has_project_certificate = $4,
		    has_internship_certificate = $5,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := tx.QueryRow(ctx, query,
		app.ID,
		app.Status,
		app.IsPaid,
		app.HasProjectCertificate,
		app.HasInternshipCertificate,
	).Scan(&app.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrApplicationNotFound
		}
		return fmt.Errorf("failed to update application with tx: %w", err)
	}
	return nil
}
