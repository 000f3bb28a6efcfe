package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"internvault-backend/internal/infrastructure/email"
)

// ============================================
// Email Verification Handler
// ============================================

type EmailVerificationHandler struct {
	emailService email.EmailService
}

func NewEmailVerificationHandler(emailService email.EmailService) *EmailVerificationHandler {
	return &EmailVerificationHandler{
		emailService: emailService,
	}
}

func (h *EmailVerificationHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload email.VerificationEmailData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal EmailVerification payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("email", payload.Email).
		Msg("Processing email verification")

	if err := h.emailService.SendVerificationEmail(ctx, payload); err != nil {
		log.Error().Err(err).Msg("Failed to send verification email")
		return fmt.Errorf("send verification email: %w", err)
	}

	return nil
}

// ============================================
// Password Reset Handler
// ============================================

type PasswordResetEmailHandler struct {
	emailService email.EmailService
}

func NewPasswordResetEmailHandler(emailService email.EmailService) *PasswordResetEmailHandler {
	return &PasswordResetEmailHandler{
		emailService: emailService,
	}
}

func (h *PasswordResetEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload email.PasswordResetData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal PasswordResetEmail payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("email", payload.Email).
		Msg("Processing password reset email")

	if err := h.emailService.SendPasswordResetEmail(ctx, payload); err != nil {
		log.Error().Err(err).Msg("Failed to send password reset email")
		return fmt.Errorf("send password reset email: %w", err)
	}

	return nil
}

// ============================================
// Payment Success Handler
// ============================================

type PaymentSuccessEmailHandler struct {
	emailService email.EmailService
}

func NewPaymentSuccessEmailHandler(emailService email.EmailService) *PaymentSuccessEmailHandler {
	return &PaymentSuccessEmailHandler{
		emailService: emailService,
	}
}

func (h *PaymentSuccessEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload email.PaymentSuccessData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal PaymentSuccessEmail payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("email", payload.Email).
		Str("domain", payload.Domain).
		Msg("Processing payment success email")

	if err := h.emailService.SendPaymentSuccessEmail(ctx, payload); err != nil {
		log.Error().Err(err).Msg("Failed to send payment success email")
		return fmt.Errorf("send payment success email: %w", err)
	}

	return nil
}

// ============================================
// Payment Failed Handler
// ============================================

type PaymentFailedEmailHandler struct {
	emailService email.EmailService
}

func NewPaymentFailedEmailHandler(emailService email.EmailService) *PaymentFailedEmailHandler {
	return &PaymentFailedEmailHandler{
		emailService: emailService,
	}
}

func (h *PaymentFailedEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload email.PaymentFailedData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal PaymentFailedEmail payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("email", payload.Email).
		Str("domain", payload.Domain).
		Msg("Processing payment failed email")

	if err := h.emailService.SendPaymentFailedEmail(ctx, payload); err != nil {
		log.Error().Err(err).Msg("Failed to send payment failed email")
		return fmt.Errorf("send payment failed email: %w", err)
	}

	return nil
}

// ============================================
// Project Certificate Handler
// ============================================

type ProjectCertificateEmailHandler struct {
	emailService email.EmailService
}

func NewProjectCertificateEmailHandler(emailService email.EmailService) *ProjectCertificateEmailHandler {
	return &ProjectCertificateEmailHandler{
		emailService: emailService,
	}
}

func (h *ProjectCertificateEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload email.ProjectCertificateData
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal ProjectCertificateEmail payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("email", payload.Email).
		Str("domain", payload.Domain).
		Msg("Processing project certificate email")

	if err := h.emailService.SendProjectCertificateEmail(ctx, payload); err != nil {
		log.Error().Err(err).Msg("Failed to send project certificate email")
		return fmt.Errorf("send project certificate email: %w", err)
	}

	return nil
}
