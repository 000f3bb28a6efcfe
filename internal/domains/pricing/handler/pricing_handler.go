package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"internvault-backend/internal/domains/pricing/model"
	"internvault-backend/internal/domains/pricing/service"
	"internvault-backend/internal/shared/response"
)

// =====================================================
// PRICING HANDLER
// =====================================================

type PricingHandler struct {
	pricingService service.PricingService
}

func NewPricingHandler(pricingService service.PricingService) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
	}
}

// RegisterPublicRoutes registers the unauthenticated carousel route.
func (h *PricingHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/pricing/carousel", h.GetCarousel) // GET /v1/pricing/carousel?country=IN
}

// RegisterAdminRoutes registers pricing plan management.
func (h *PricingHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	pricing := router.Group("/pricing")
	{
		pricing.POST("", h.CreatePlan)       // POST   /v1/admin/pricing
		pricing.GET("/all", h.ListPlans)     // GET    /v1/admin/pricing/all
		pricing.PATCH("/:id", h.UpdatePlan)  // PATCH  /v1/admin/pricing/:id
		pricing.DELETE("/:id", h.DeletePlan) // DELETE /v1/admin/pricing/:id
	}
}

func (h *PricingHandler) GetCarousel(c *gin.Context) {
	resp, err := h.pricingService.GetCarousel(
		c.Request.Context(),
		c.ClientIP(),
		c.Query("country"),
	)
	if err != nil {
		response.InternalServerError(c, "Failed to load pricing plans")
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *PricingHandler) CreatePlan(c *gin.Context) {
	var req model.CreatePricingPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	plan, err := h.pricingService.CreatePlan(c.Request.Context(), req)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Failed to create pricing plan", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, plan)
}

func (h *PricingHandler) ListPlans(c *gin.Context) {
	var filter model.ListFilter
	if country := c.Query("country"); country != "" {
		filter.Country = &country
	}
	if active := c.Query("is_active"); active != "" {
		parsed, err := strconv.ParseBool(active)
		if err != nil {
			response.BadRequest(c, "Invalid is_active value")
			return
		}
		filter.IsActive = &parsed
	}

	plans, err := h.pricingService.ListPlans(c.Request.Context(), filter)
	if err != nil {
		response.InternalServerError(c, "Failed to list pricing plans")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"pricing_plans": plans})
}

func (h *PricingHandler) UpdatePlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pricing plan ID")
		return
	}

	var req model.UpdatePricingPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	plan, err := h.pricingService.UpdatePlan(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, model.ErrPlanNotFound) {
			response.NotFound(c, "Pricing plan not found")
			return
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Failed to update pricing plan", err.Error())
		return
	}

	response.Success(c, http.StatusOK, plan)
}

func (h *PricingHandler) DeletePlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pricing plan ID")
		return
	}

	if err := h.pricingService.DeletePlan(c.Request.Context(), id); err != nil {
		if errors.Is(err, model.ErrPlanNotFound) {
			response.NotFound(c, "Pricing plan not found")
			return
		}
		response.InternalServerError(c, "Failed to delete pricing plan")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Pricing plan deleted successfully"})
}
