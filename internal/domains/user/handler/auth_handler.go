package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"internvault-backend/internal/domains/user/model"
	"internvault-backend/internal/domains/user/service"
	"internvault-backend/internal/shared/response"
)

// =====================================================
// AUTH HANDLER
// =====================================================

type AuthHandler struct {
	userService service.UserService
}

func NewAuthHandler(userService service.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

// RegisterRoutes registers public auth routes.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)              // POST /v1/auth/register
		auth.GET("/verify", h.VerifyEmail)              // GET  /v1/auth/verify?token=...
		auth.POST("/resend", h.ResendVerification)      // POST /v1/auth/resend
		auth.POST("/login", h.Login)                    // POST /v1/auth/login
		auth.POST("/forgot-password", h.ForgotPassword) // POST /v1/auth/forgot-password
		auth.POST("/reset-password", h.ResetPassword)   // POST /v1/auth/reset-password
	}
}

// RegisterProtectedRoutes registers routes that require a valid token.
func (h *AuthHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.GET("/auth/me", h.Me)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.Register(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, model.ErrEmailAlreadyExists):
			response.Conflict(c, "Email already registered")
		default:
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Registration failed", err.Error())
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "Registered! Please check your email.",
	})
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "Missing token")
		return
	}

	if err := h.userService.VerifyEmail(c.Request.Context(), token); err != nil {
		if errors.Is(err, model.ErrInvalidToken) {
			response.BadRequest(c, "Invalid or expired token")
			return
		}
		response.InternalServerError(c, "Failed to verify email")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Email verified successfully"})
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req model.ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid email", err.Error())
		return
	}

	if err := h.userService.ResendVerification(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			response.NotFound(c, "User not found")
		case errors.Is(err, model.ErrEmailAlreadyVerified):
			response.BadRequest(c, "Email already verified")
		default:
			response.InternalServerError(c, "Failed to resend verification email")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Verification email resent"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidCredentials):
			response.Unauthorized(c, "Invalid credentials")
		case errors.Is(err, model.ErrEmailNotVerified):
			response.Forbidden(c, "Email not verified")
		default:
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Login failed", err.Error())
		}
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid email", err.Error())
		return
	}

	if err := h.userService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.InternalServerError(c, "Failed to process request")
		return
	}

	// Same message whether or not the email exists.
	response.Success(c, http.StatusOK, gin.H{
		"message": "If that email is registered, you'll receive a reset link.",
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), req); err != nil {
		if errors.Is(err, model.ErrInvalidToken) {
			response.BadRequest(c, "Invalid or expired token")
			return
		}
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Reset failed", err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	dto, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalServerError(c, "Failed to load profile")
		return
	}

	response.Success(c, http.StatusOK, dto)
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
