package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"internvault-backend/internal/domains/application/model"
	"internvault-backend/internal/domains/application/service"
	"internvault-backend/internal/shared/response"
)

// =====================================================
// APPLICATION HANDLER
// =====================================================

type ApplicationHandler struct {
	appService service.ApplicationService
}

func NewApplicationHandler(appService service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		appService: appService,
	}
}

// RegisterRoutes registers authenticated intern routes.
func (h *ApplicationHandler) RegisterRoutes(router *gin.RouterGroup) {
	apps := router.Group("/applications")
	{
		apps.POST("", h.Submit)                                             // POST   /v1/applications
		apps.GET("", h.ListMine)                                            // GET    /v1/applications
		apps.GET("/:id", h.GetMine)                                         // GET    /v1/applications/:id
		apps.GET("/:id/details", h.GetWithProjects)                         // GET    /v1/applications/:id/details
		apps.GET("/:id/projects", h.GetProjects)                            // GET    /v1/applications/:id/projects
		apps.POST("/:id/projects/:projectId/submit", h.SubmitProject)       // POST   /v1/applications/:id/projects/:projectId/submit
		apps.DELETE("/:id", h.Delete)                                       // DELETE /v1/applications/:id
	}
}

// RegisterAdminRoutes registers review and catalog management.
func (h *ApplicationHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/applications")
	{
		admin.GET("", h.ListAll)                                           // GET   /v1/admin/applications
		admin.PATCH("/:id/status", h.UpdateStatus)                         // PATCH /v1/admin/applications/:id/status
		admin.POST("/:id/projects/:projectId/approve", h.ApproveProject)   // POST  /v1/admin/applications/:id/projects/:projectId/approve
	}

	projects := router.Group("/projects")
	{
		projects.POST("", h.CreateProject) // POST /v1/admin/projects
		projects.GET("", h.ListProjects)   // GET  /v1/admin/projects?domain=...&role=...
	}
}

func (h *ApplicationHandler) Submit(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	dto, err := h.appService.Submit(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrActiveApplicationExists):
			response.Conflict(c, "You already have an active application. Please complete or cancel it first.")
		case errors.Is(err, model.ErrPriceMismatch):
			response.BadRequest(c, "Price does not match an active pricing plan")
		default:
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Failed to submit application", err.Error())
		}
		return
	}

	response.Success(c, http.StatusCreated, dto)
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	apps, err := h.appService.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.InternalServerError(c, "Failed to list applications")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"applications": apps})
}

func (h *ApplicationHandler) GetMine(c *gin.Context) {
	userID, appID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	dto, err := h.appService.GetMine(c.Request.Context(), userID, appID)
	if err != nil {
		if errors.Is(err, model.ErrApplicationNotFound) {
			response.NotFound(c, "Application not found")
			return
		}
		response.InternalServerError(c, "Failed to load application")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"application": dto})
}

func (h *ApplicationHandler) GetWithProjects(c *gin.Context) {
	userID, appID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	result, err := h.appService.GetWithProjects(c.Request.Context(), userID, appID)
	if err != nil {
		if errors.Is(err, model.ErrApplicationNotFound) {
			response.NotFound(c, "Application not found")
			return
		}
		response.InternalServerError(c, "Failed to load application")
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *ApplicationHandler) GetProjects(c *gin.Context) {
	userID, appID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	result, err := h.appService.GetWithProjects(c.Request.Context(), userID, appID)
	if err != nil {
		if errors.Is(err, model.ErrApplicationNotFound) {
			response.NotFound(c, "Application not found")
			return
		}
		response.InternalServerError(c, "Failed to load projects")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"application": gin.H{
			"id":      result.Application.ID,
			"user_id": userID,
		},
		"projects": result.Projects,
	})
}

func (h *ApplicationHandler) SubmitProject(c *gin.Context) {
	userID, appID, ok := h.pathIDs(c)
	if !ok {
		return
	}
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		response.BadRequest(c, "Invalid project ID")
		return
	}

	var req model.SubmitProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	assignment, err := h.appService.SubmitProject(c.Request.Context(), userID, appID, projectID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrApplicationNotFound):
			response.NotFound(c, "Application not found")
		case errors.Is(err, model.ErrAssignmentNotFound):
			response.NotFound(c, "Project assignment not found")
		default:
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Failed to submit project", err.Error())
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "Project submitted successfully",
		"project": assignment,
	})
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
	userID, appID, ok := h.pathIDs(c)
	if !ok {
		return
	}

	if err := h.appService.Delete(c.Request.Context(), userID, appID); err != nil {
		if errors.Is(err, model.ErrNotDeletable) {
			response.Forbidden(c, "Application cannot be deleted (not found or already in progress/completed).")
			return
		}
		response.InternalServerError(c, "Failed to delete application")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Application deleted successfully."})
}

// =====================================================
// ADMIN
// =====================================================

func (h *ApplicationHandler) ListAll(c *gin.Context) {
	apps, err := h.appService.ListAll(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "Failed to list applications")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"applications": apps})
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	appID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid application ID")
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid status", err.Error())
		return
	}

	app, err := h.appService.UpdateStatus(c.Request.Context(), appID, req.Status)
	if err != nil {
		if errors.Is(err, model.ErrApplicationNotFound) {
			response.NotFound(c, "Application not found")
			return
		}
		response.InternalServerError(c, "Failed to update application status")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":     "Application status updated successfully",
		"application": app,
	})
}

func (h *ApplicationHandler) ApproveProject(c *gin.Context) {
	adminID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	appID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid application ID")
		return
	}
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		response.BadRequest(c, "Invalid project ID")
		return
	}

	var req model.ApproveProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	assignment, err := h.appService.ApproveProject(c.Request.Context(), adminID, appID, projectID, req.Approved)
	if err != nil {
		if errors.Is(err, model.ErrAssignmentNotFound) {
			response.NotFound(c, "Project assignment not found")
			return
		}
		response.InternalServerError(c, "Failed to update project approval")
		return
	}

	verdict := "rejected"
	if req.Approved {
		verdict = "approved"
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "Project " + verdict + " successfully",
		"project": assignment,
	})
}

func (h *ApplicationHandler) CreateProject(c *gin.Context) {
	var req model.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.appService.CreateProject(c.Request.Context(), req)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Failed to create project", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, project)
}

func (h *ApplicationHandler) ListProjects(c *gin.Context) {
	projects, err := h.appService.ListProjects(c.Request.Context(), c.Query("domain"), c.Query("role"))
	if err != nil {
		response.InternalServerError(c, "Failed to list projects")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"projects": projects})
}

func (h *ApplicationHandler) pathIDs(c *gin.Context) (userID, appID uuid.UUID, ok bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}

	appID, err = uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid application ID")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, appID, true
}

func getUserIDFromContext(c *gin.Context) (uuid.UUID, error) {
	v, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, errors.New("userID not found in context")
	}
	userID, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("userID has unexpected type")
	}
	return userID, nil
}
