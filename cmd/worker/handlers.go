package main

import (
	"github.com/hibiken/asynq"

	paymentJob "internvault-backend/internal/domains/payment/job"
	"internvault-backend/internal/infrastructure/email"
	emailjob "internvault-backend/internal/infrastructure/email/job"
	"internvault-backend/internal/shared"
	"internvault-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	// Email handlers
	emailVerification  *emailjob.EmailVerificationHandler
	passwordReset      *emailjob.PasswordResetEmailHandler
	paymentSuccess     *emailjob.PaymentSuccessEmailHandler
	paymentFailed      *emailjob.PaymentFailedEmailHandler
	projectCertificate *emailjob.ProjectCertificateEmailHandler

	// Maintenance handlers
	expireStalePayments *paymentJob.ExpireStalePaymentsHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container, cfg *workerConfig) *HandlerRegistry {
	emailSvc := email.NewSMTPEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.PaymentFrom, cfg.NoReplyFrom)

	return &HandlerRegistry{
		emailVerification:  emailjob.NewEmailVerificationHandler(emailSvc),
		passwordReset:      emailjob.NewPasswordResetEmailHandler(emailSvc),
		paymentSuccess:     emailjob.NewPaymentSuccessEmailHandler(emailSvc),
		paymentFailed:      emailjob.NewPaymentFailedEmailHandler(emailSvc),
		projectCertificate: emailjob.NewProjectCertificateEmailHandler(emailSvc),

		expireStalePayments: paymentJob.NewExpireStalePaymentsHandler(c.PaymentService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Email tasks
	mux.HandleFunc(shared.TypeSendVerificationEmail, h.emailVerification.ProcessTask)
	mux.HandleFunc(shared.TypeSendPasswordResetEmail, h.passwordReset.ProcessTask)
	mux.HandleFunc(shared.TypeSendPaymentSuccessEmail, h.paymentSuccess.ProcessTask)
	mux.HandleFunc(shared.TypeSendPaymentFailedEmail, h.paymentFailed.ProcessTask)
	mux.HandleFunc(shared.TypeSendCertificateEmail, h.projectCertificate.ProcessTask)

	// Maintenance tasks
	mux.HandleFunc(shared.TypeExpireStalePayments, h.expireStalePayments.ProcessTask)
}
