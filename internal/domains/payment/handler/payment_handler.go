package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appmodel "internvault-backend/internal/domains/application/model"
	"internvault-backend/internal/domains/payment/model"
	"internvault-backend/internal/domains/payment/service"
	"internvault-backend/internal/shared/response"
	"internvault-backend/pkg/logger"
)

// =====================================================
// PAYMENT HANDLER
// =====================================================

type PaymentHandler struct {
	paymentService service.PaymentService
	webhookService service.WebhookService
}

func NewPaymentHandler(paymentService service.PaymentService, webhookService service.WebhookService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		webhookService: webhookService,
	}
}

// RegisterRoutes registers the authenticated pay endpoints on the
// applications group.
func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	apps := router.Group("/applications")
	{
		apps.POST("/:id/pay/stripe", h.payWith(model.GatewayStripe))           // POST /v1/applications/:id/pay/stripe
		apps.POST("/:id/pay/paypal", h.payWith(model.GatewayPayPal))           // POST /v1/applications/:id/pay/paypal
		apps.POST("/:id/pay/netbanking", h.payWith(model.GatewayNetBanking))   // POST /v1/applications/:id/pay/netbanking
		apps.POST("/:id/pay/cashfree-upi", h.payWith(model.GatewayCashfree))   // POST /v1/applications/:id/pay/cashfree-upi
	}
}

// RegisterWebhookRoutes registers the unauthenticated provider
// callbacks on the public group.
func (h *PaymentHandler) RegisterWebhookRoutes(router *gin.RouterGroup) {
	router.POST("/webhook/stripe", h.StripeWebhook)                    // POST /v1/webhook/stripe
	router.POST("/webhook/paypal", h.PayPalWebhook)                    // POST /v1/webhook/paypal
	router.POST("/applications/webhook/cashfree", h.CashfreeWebhook)   // POST /v1/applications/webhook/cashfree
}

// RegisterAdminRoutes registers payment inspection for admins.
func (h *PaymentHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/applications/:id/payments", h.ListByApplication)      // GET /v1/admin/applications/:id/payments
}

func (h *PaymentHandler) payWith(gw model.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := getUserIDFromContext(c)
		if !ok {
			response.Unauthorized(c, "Authentication required")
			return
		}

		applicationID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.BadRequest(c, "Invalid application ID")
			return
		}

		checkout, err := h.paymentService.CreateCheckout(c.Request.Context(), userID, applicationID, gw)
		if err != nil {
			switch {
			case errors.Is(err, appmodel.ErrApplicationNotFound):
				response.NotFound(c, "Application not found")
			case errors.Is(err, model.ErrApplicationNotPending):
				response.BadRequest(c, "Application is not pending")
			case errors.Is(err, model.ErrAlreadyPaid):
				response.BadRequest(c, "Application already paid")
			case errors.Is(err, model.ErrGatewayUnavailable):
				response.ErrorResponse(c, http.StatusServiceUnavailable, "GATEWAY_UNAVAILABLE", "Payment gateway is not configured")
			default:
				logger.Error("Failed to create checkout", err)
				response.InternalServerError(c, "Failed to create checkout")
			}
			return
		}

		response.Success(c, http.StatusOK, checkout)
	}
}

func (h *PaymentHandler) ListByApplication(c *gin.Context) {
	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid application ID")
		return
	}

	payments, err := h.paymentService.ListByApplication(c.Request.Context(), applicationID)
	if err != nil {
		logger.Error("Failed to list payments", err)
		response.InternalServerError(c, "Failed to list payments")
		return
	}

	response.Success(c, http.StatusOK, payments)
}

// StripeWebhook verifies and processes Stripe checkout callbacks.
func (h *PaymentHandler) StripeWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "Failed to read request body")
		return
	}

	err = h.webhookService.HandleStripe(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidSignature):
			response.BadRequest(c, "Invalid signature")
		case errors.Is(err, model.ErrMalformedPayload):
			response.BadRequest(c, "Malformed payload")
		case errors.Is(err, model.ErrPaymentNotFound):
			// The provider retries non-2xx responses; acknowledge
			// references we never issued instead of fighting it.
			logger.Warn("Stripe webhook for unknown payment", nil)
			c.JSON(http.StatusOK, gin.H{"received": true})
		default:
			logger.Error("Stripe webhook processing failed", err)
			response.InternalServerError(c, "Webhook processing failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// PayPalWebhook processes PayPal order callbacks.
func (h *PaymentHandler) PayPalWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "Failed to read request body")
		return
	}

	err = h.webhookService.HandlePayPal(c.Request.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMalformedPayload):
			response.BadRequest(c, "Malformed payload")
		case errors.Is(err, model.ErrPaymentNotFound):
			logger.Warn("PayPal webhook for unknown payment", nil)
			c.JSON(http.StatusOK, gin.H{"received": true})
		default:
			logger.Error("PayPal webhook processing failed", err)
			response.InternalServerError(c, "Webhook processing failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// CashfreeWebhook verifies and processes Cashfree order callbacks.
func (h *PaymentHandler) CashfreeWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "Failed to read request body")
		return
	}

	err = h.webhookService.HandleCashfree(c.Request.Context(), payload, c.GetHeader("x-webhook-signature"))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidSignature):
			response.Unauthorized(c, "Invalid signature")
		case errors.Is(err, model.ErrMalformedPayload):
			response.BadRequest(c, "Missing orderId")
		case errors.Is(err, model.ErrPaymentNotFound):
			response.NotFound(c, "Payment not found")
		default:
			logger.Error("Cashfree webhook processing failed", err)
			response.InternalServerError(c, "Webhook processing failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func getUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}
