package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"internvault-backend/internal/domains/application/model"
	"internvault-backend/internal/domains/application/repository"
	pricingModel "internvault-backend/internal/domains/pricing/model"
	pricing "internvault-backend/internal/domains/pricing/service"
	"internvault-backend/internal/infrastructure/database"
	"internvault-backend/internal/infrastructure/email"
	"internvault-backend/internal/infrastructure/queue"
	"internvault-backend/pkg/logger"
)

// Assignments are capped regardless of duration: one project per
// difficulty tier at most.
const maxAssignedProjects = 3

// =====================================================
// APPLICATION SERVICE IMPLEMENTATION
// =====================================================

type applicationService struct {
	appRepo        repository.ApplicationRepository
	projectRepo    repository.ProjectRepository
	pricingService pricing.PricingService
	txManager      database.TransactionManager
	enqueuer       queue.TaskEnqueuer
}

func NewApplicationService(
	appRepo repository.ApplicationRepository,
	projectRepo repository.ProjectRepository,
	pricingService pricing.PricingService,
	txManager database.TransactionManager,
	enqueuer queue.TaskEnqueuer,
) ApplicationService {
	return &applicationService{
		appRepo:        appRepo,
		projectRepo:    projectRepo,
		pricingService: pricingService,
		txManager:      txManager,
		enqueuer:       enqueuer,
	}
}

// =====================================================
// SUBMIT APPLICATION
// =====================================================

func (s *applicationService) Submit(ctx context.Context, userID uuid.UUID, req model.SubmitApplicationRequest) (*model.ApplicationDTO, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Enforce single active application per user
	active, err := s.appRepo.HasActiveApplication(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, model.ErrActiveApplicationExists
	}

	// Step 3: Price is server-authoritative; the client echo must match
	// an active plan for the currency and duration.
	plan, err := s.pricingService.PlanFor(ctx, req.Currency, req.Duration)
	if err != nil {
		if errors.Is(err, pricingModel.ErrNoPlanForDuration) {
			return nil, model.ErrPriceMismatch
		}
		return nil, err
	}
	if !plan.Price.Equal(req.Price) {
		return nil, model.ErrPriceMismatch
	}

	// Step 4: Create the application
	app := &model.Application{
		ID:             uuid.New(),
		UserID:         userID,
		FullName:       req.FullName,
		ContactEmail:   req.ContactEmail,
		WhatsappNumber: req.WhatsappNumber,
		Role:           req.Role,
		Domain:         req.Domain,
		Duration:       req.Duration,
		Price:          req.Price,
		Currency:       req.Currency,
		Status:         model.StatusPending,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	// Step 5: Assign projects; failure degrades, never rolls back the
	// application.
	if err := s.assignProjects(ctx, app); err != nil {
		logger.Error("Failed to assign projects to application", err)
	}

	dto := app.ToDTO()
	return &dto, nil
}

func (s *applicationService) assignProjects(ctx context.Context, app *model.Application) error {
	projects, err := s.projectRepo.FindAssignable(ctx, app.Domain, app.Role)
	if err != nil {
		return fmt.Errorf("find assignable projects: %w", err)
	}
	if len(projects) > maxAssignedProjects {
		projects = projects[:maxAssignedProjects]
	}
	if len(projects) == 0 {
		logger.Warn("No assignable projects for application", map[string]interface{}{
			"application_id": app.ID.String(),
			"domain":         app.Domain,
			"role":           app.Role,
		})
		return nil
	}

	assignments := make([]model.ProjectAssignment, 0, len(projects))
	for _, p := range projects {
		assignments = append(assignments, model.ProjectAssignment{
			ID:            uuid.New(),
			ApplicationID: app.ID,
			ProjectID:     p.ID,
		})
	}
	return s.projectRepo.CreateAssignments(ctx, assignments)
}

// =====================================================
// READS
// =====================================================

func (s *applicationService) ListMine(ctx context.Context, userID uuid.UUID) ([]model.ApplicationDTO, error) {
	apps, err := s.appRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	dtos := make([]model.ApplicationDTO, 0, len(apps))
	for i := range apps {
		dtos = append(dtos, apps[i].ToDTO())
	}
	return dtos, nil
}

func (s *applicationService) GetMine(ctx context.Context, userID, id uuid.UUID) (*model.ApplicationDTO, error) {
	app, err := s.appRepo.GetByIDAndUserID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	dto := app.ToDTO()
	return &dto, nil
}

func (s *applicationService) GetWithProjects(ctx context.Context, userID, id uuid.UUID) (*model.ApplicationWithProjects, error) {
	app, err := s.appRepo.GetByIDAndUserID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.projectRepo.ListAssignments(ctx, app.ID)
	if err != nil {
		return nil, err
	}

	return &model.ApplicationWithProjects{
		Application: app.ToDTO(),
		Projects:    assignments,
	}, nil
}

func (s *applicationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	app, err := s.appRepo.GetByIDAndUserID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, model.ErrApplicationNotFound) {
			return model.ErrNotDeletable
		}
		return err
	}

	if !app.CanDelete() {
		return model.ErrNotDeletable
	}

	return s.appRepo.Delete(ctx, app.ID)
}

// =====================================================
// PROJECT SUBMISSION
// =====================================================

func (s *applicationService) SubmitProject(ctx context.Context, userID, applicationID, projectID uuid.UUID, req model.SubmitProjectRequest) (*model.ProjectAssignment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	app, err := s.appRepo.GetByIDAndUserID(ctx, applicationID, userID)
	if err != nil {
		return nil, err
	}

	assignment, err := s.projectRepo.GetAssignment(ctx, applicationID, projectID)
	if err != nil {
		return nil, err
	}

	updated, err := s.projectRepo.SetSubmission(ctx, assignment.ID, req.SubmissionURL)
	if err != nil {
		return nil, err
	}

	// First submission moves the application off PENDING.
	if app.Status == model.StatusPending {
		if err := s.appRepo.UpdateStatus(ctx, app.ID, model.StatusInProgress); err != nil {
			logger.Error("Failed to advance application to IN_PROGRESS", err)
		}
	}

	return updated, nil
}

// =====================================================
// ADMIN
// =====================================================

func (s *applicationService) ListAll(ctx context.Context) ([]model.Application, error) {
	return s.appRepo.ListAll(ctx)
}

func (s *applicationService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) (*model.Application, error) {
	if !status.IsValid() {
		return nil, model.ErrInvalidStatus
	}

	if err := s.appRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.appRepo.GetByID(ctx, id)
}

// ApproveProject records the review verdict and re-evaluates the
// certificate rule inside one transaction. Approval awards the points
// of the project's difficulty; rejection zeroes them.
func (s *applicationService) ApproveProject(ctx context.Context, adminID, applicationID, projectID uuid.UUID, approved bool) (*model.ProjectAssignment, error) {
	assignment, err := s.projectRepo.GetAssignment(ctx, applicationID, projectID)
	if err != nil {
		return nil, err
	}

	if approved {
		now := time.Now()
		assignment.Approved = true
		assignment.ApprovedAt = &now
		assignment.ApprovedBy = &adminID
		assignment.Points = model.PointsForDifficulty(assignment.Project.Difficulty)
	} else {
		assignment.Approved = false
		assignment.ApprovedAt = nil
		assignment.ApprovedBy = nil
		assignment.Points = 0
	}

	tx, err := s.txManager.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = s.txManager.RollbackTx(ctx, tx)
		}
	}()

	if err := s.projectRepo.SetApprovalWithTx(ctx, tx, assignment); err != nil {
		return nil, err
	}

	app, err := s.appRepo.GetByIDWithTx(ctx, tx, applicationID)
	if err != nil {
		return nil, err
	}

	certUnlocked := false
	if approved && !app.HasProjectCertificate {
		total, err := s.projectRepo.SumApprovedPointsWithTx(ctx, tx, applicationID)
		if err != nil {
			return nil, err
		}

		if total >= model.TargetPoints(app.Duration) {
			app.HasProjectCertificate = true
			certUnlocked = true
			// Payment may have landed first; either order flips the
			// internship certificate on the second event.
			if app.IsPaid {
				app.HasInternshipCertificate = true
			}
			if err := s.appRepo.UpdateWithTx(ctx, tx, app); err != nil {
				return nil, err
			}
		}
	}

	if err := s.txManager.CommitTx(ctx, tx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	if certUnlocked {
		if err := s.enqueuer.EnqueueProjectCertificateEmail(ctx, email.ProjectCertificateData{
			Email:  app.ContactEmail,
			Name:   app.FullName,
			Domain: app.Domain,
		}); err != nil {
			logger.Error("Failed to enqueue project certificate email", err)
		}
	}

	return assignment, nil
}

func (s *applicationService) CreateProject(ctx context.Context, req model.CreateProjectRequest) (*model.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	project := &model.Project{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Domain:      req.Domain,
		Role:        req.Role,
		Difficulty:  req.Difficulty,
		ResourceURL: req.ResourceURL,
	}
	if err := s.projectRepo.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *applicationService) ListProjects(ctx context.Context, domain, role string) ([]model.Project, error) {
	return s.projectRepo.ListProjects(ctx, domain, role)
}
