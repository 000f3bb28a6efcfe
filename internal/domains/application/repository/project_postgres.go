package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"internvault-backend/internal/domains/application/model"
)

// =====================================================
// POSTGRES PROJECT REPOSITORY
// =====================================================

type postgresProjectRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &postgresProjectRepository{pool: pool}
}

const projectColumns = `id, name, description, domain, role, difficulty, resource_url, created_at, updated_at`

func scanProject(row pgx.Row) (*model.Project, error) {
	var p model.Project
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Domain,
		&p.Role,
		&p.Difficulty,
		&p.ResourceURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	return &p, nil
}

func collectProjects(rows pgx.Rows) ([]model.Project, error) {
	defer rows.Close()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Domain,
			&p.Role,
			&p.Difficulty,
			&p.ResourceURL,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *postgresProjectRepository) CreateProject(ctx context.Context, project *model.Project) error {
	query := `
		INSERT INTO projects (id, name, description, domain, role, difficulty, resource_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.Domain,
		project.Role,
		project.Difficulty,
		project.ResourceURL,
	).Scan(&project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *postgresProjectRepository) GetProjectByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresProjectRepository) ListProjects(ctx context.Context, domain, role string) ([]model.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	var (
		conds []string
		args  []interface{}
	)

	if domain != "" {
		args = append(args, domain)
		conds = append(conds, fmt.Sprintf("LOWER(domain) = LOWER($%d)", len(args)))
	}
	if role != "" {
		args = append(args, role)
		conds = append(conds, fmt.Sprintf("LOWER(role) = LOWER($%d)", len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY domain, role, difficulty"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return collectProjects(rows)
}

func (r *postgresProjectRepository) FindAssignable(ctx context.Context, domain, role string) ([]model.Project, error) {
	// One project per difficulty tier, newest first within the tier.
	query := `
		SELECT DISTINCT ON (difficulty) ` + projectColumns + `
		FROM projects
		WHERE LOWER(domain) = LOWER($1) AND LOWER(role) = LOWER($2)
		ORDER BY difficulty, created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, domain, role)
	if err != nil {
		return nil, fmt.Errorf("failed to find assignable projects: %w", err)
	}
	return collectProjects(rows)
}

func (r *postgresProjectRepository) CreateAssignments(ctx context.Context, assignments []model.ProjectAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO application_projects (id, application_id, project_id)
		VALUES ($1, $2, $3)
	`
	for _, a := range assignments {
		batch.Queue(query, a.ID, a.ApplicationID, a.ProjectID)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range assignments {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to create project assignment: %w", err)
		}
	}
	return nil
}

const assignmentColumns = `
	ap.id, ap.application_id, ap.project_id,
	ap.submission_url, ap.submitted_at,
	ap.approved, ap.approved_at, ap.approved_by, ap.points,
	ap.created_at
`

func scanAssignmentWithProject(row pgx.Row) (*model.ProjectAssignment, error) {
	var (
		a model.ProjectAssignment
		p model.Project
	)
	err := row.Scan(
		&a.ID,
		&a.ApplicationID,
		&a.ProjectID,
		&a.SubmissionURL,
		&a.SubmittedAt,
		&a.Approved,
		&a.ApprovedAt,
		&a.ApprovedBy,
		&a.Points,
		&a.CreatedAt,
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Domain,
		&p.Role,
		&p.Difficulty,
		&p.ResourceURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to scan project assignment: %w", err)
	}
	a.Project = &p
	return &a, nil
}

func (r *postgresProjectRepository) GetAssignment(ctx context.Context, applicationID, projectID uuid.UUID) (*model.ProjectAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `, ` + prefixedProjectColumns() + `
		FROM application_projects ap
		JOIN projects p ON p.id = ap.project_id
		WHERE ap.application_id = $1 AND ap.project_id = $2
	`
	return scanAssignmentWithProject(r.pool.QueryRow(ctx, query, applicationID, projectID))
}

func (r *postgresProjectRepository) ListAssignments(ctx context.Context, applicationID uuid.UUID) ([]model.ProjectAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `, ` + prefixedProjectColumns() + `
		FROM application_projects ap
		JOIN projects p ON p.id = ap.project_id
		WHERE ap.application_id = $1
		ORDER BY ap.created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.ProjectAssignment
	for rows.Next() {
		var (
			a model.ProjectAssignment
			p model.Project
		)
		if err := rows.Scan(
			&a.ID,
			&a.ApplicationID,
			&a.ProjectID,
			&a.SubmissionURL,
			&a.SubmittedAt,
			&a.Approved,
			&a.ApprovedAt,
			&a.ApprovedBy,
			&a.Points,
			&a.CreatedAt,
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Domain,
			&p.Role,
			&p.Difficulty,
			&p.ResourceURL,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan project assignment: %w", err)
		}
		a.Project = &p
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (r *postgresProjectRepository) SetSubmission(ctx context.Context, assignmentID uuid.UUID, submissionURL string) (*model.ProjectAssignment, error) {
	query := `
		UPDATE application_projects ap
		SET submission_url = $2, submitted_at = NOW()
		FROM projects p
		WHERE ap.id = $1 AND p.id = ap.project_id
		RETURNING ` + assignmentColumns + `, ` + prefixedProjectColumns()

	return scanAssignmentWithProject(r.pool.QueryRow(ctx, query, assignmentID, submissionURL))
}

func (r *postgresProjectRepository) SetApprovalWithTx(ctx context.Context, tx pgx.Tx, assignment *model.ProjectAssignment) error {
	query := `
		UPDATE application_projects
		SET approved = $2, approved_at = $3, approved_by = $4, points = $5
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query,
		assignment.ID,
		assignment.Approved,
		assignment.ApprovedAt,
		assignment.ApprovedBy,
		assignment.Points,
	)
	if err != nil {
		return fmt.Errorf("failed to set approval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAssignmentNotFound
	}
	return nil
}

func (r *postgresProjectRepository) SumApprovedPointsWithTx(ctx context.Context, tx pgx.Tx, applicationID uuid.UUID) (int, error) {
	query := `
		SELECT COALESCE(SUM(points), 0)
		FROM application_projects
		WHERE application_id = $1 AND approved = TRUE
	`

	var sum int
	if err := tx.QueryRow(ctx, query, applicationID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum approved points: %w", err)
	}
	return sum, nil
}

func prefixedProjectColumns() string {
	return `p.id, p.name, p.description, p.domain, p.role, p.difficulty, p.resource_url, p.created_at, p.updated_at`
}
