package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"internvault-backend/internal/domains/application/model"
)

type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Application, error)
	GetByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*model.Application, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.Application, error)
	ListAll(ctx context.Context) ([]model.Application, error)
	HasActiveApplication(ctx context.Context, userID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Transactional variants used by payment reconciliation and
	// certificate evaluation.
	GetByIDWithTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Application, error)
	UpdateWithTx(ctx context.Context, tx pgx.Tx, app *model.Application) error
}

type ProjectRepository interface {
	CreateProject(ctx context.Context, project *model.Project) error
	GetProjectByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	ListProjects(ctx context.Context, domain, role string) ([]model.Project, error)

	// FindAssignable picks at most one project per difficulty tier
	// matching (domain, role), case-insensitively.
	FindAssignable(ctx context.Context, domain, role string) ([]model.Project, error)

	CreateAssignments(ctx context.Context, assignments []model.ProjectAssignment) error
	GetAssignment(ctx context.Context, applicationID, projectID uuid.UUID) (*model.ProjectAssignment, error)
	ListAssignments(ctx context.Context, applicationID uuid.UUID) ([]model.ProjectAssignment, error)
	SetSubmission(ctx context.Context, assignmentID uuid.UUID, submissionURL string) (*model.ProjectAssignment, error)

	SetApprovalWithTx(ctx context.Context, tx pgx.Tx, assignment *model.ProjectAssignment) error
	SumApprovedPointsWithTx(ctx context.Context, tx pgx.Tx, applicationID uuid.UUID) (int, error)
}
