package service

import (
	"context"

	"github.com/google/uuid"

	"internvault-backend/internal/domains/application/model"
)

type ApplicationService interface {
	// Intern-facing operations
	Submit(ctx context.Context, userID uuid.UUID, req model.SubmitApplicationRequest) (*model.ApplicationDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]model.ApplicationDTO, error)
	GetMine(ctx context.Context, userID, id uuid.UUID) (*model.ApplicationDTO, error)
	GetWithProjects(ctx context.Context, userID, id uuid.UUID) (*model.ApplicationWithProjects, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SubmitProject(ctx context.Context, userID, applicationID, projectID uuid.UUID, req model.SubmitProjectRequest) (*model.ProjectAssignment, error)

	// Admin operations
	ListAll(ctx context.Context) ([]model.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) (*model.Application, error)
	ApproveProject(ctx context.Context, adminID, applicationID, projectID uuid.UUID, approved bool) (*model.ProjectAssignment, error)
	CreateProject(ctx context.Context, req model.CreateProjectRequest) (*model.Project, error)
	ListProjects(ctx context.Context, domain, role string) ([]model.Project, error)
}
