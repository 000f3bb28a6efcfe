package email

import (
	"context"
	"fmt"
	"net/smtp"

	"internvault-backend/pkg/logger"
)

// EmailService sends transactional mail. Payment related mail goes out
// from the payments address, everything else from the no-reply address.
type EmailService interface {
	SendVerificationEmail(ctx context.Context, data VerificationEmailData) error
	SendPasswordResetEmail(ctx context.Context, data PasswordResetData) error
	SendPaymentSuccessEmail(ctx context.Context, data PaymentSuccessData) error
	SendPaymentFailedEmail(ctx context.Context, data PaymentFailedData) error
	SendProjectCertificateEmail(ctx context.Context, data ProjectCertificateData) error
}

type smtpEmailService struct {
	smtpAddr    string
	paymentFrom string
	noReplyFrom string
}

func NewSMTPEmailService(smtpHost, smtpPort, paymentFrom, noReplyFrom string) EmailService {
	return &smtpEmailService{
		smtpAddr:    smtpHost + ":" + smtpPort,
		paymentFrom: paymentFrom,
		noReplyFrom: noReplyFrom,
	}
}

func (s *smtpEmailService) SendVerificationEmail(ctx context.Context, data VerificationEmailData) error {
	subject := "Verify Your Email"
	body := fmt.Sprintf(`<h2>Welcome to InternVault</h2>
<p>Hi %s,</p>
<p>Please verify your email by clicking the link below:</p>
<a href="%s">Verify your email</a>`, data.Name, data.VerifyLink)

	return s.send(data.Email, s.noReplyFrom, subject, body)
}

func (s *smtpEmailService) SendPasswordResetEmail(ctx context.Context, data PasswordResetData) error {
	subject := "Reset Your Password"
	body := fmt.Sprintf(`<h2>Password Reset Request</h2>
<p>Hi %s,</p>
<p>Click the link below to reset your password (valid for 1 hour):</p>
<a href="%s">Reset your Password</a>`, data.Name, data.ResetLink)

	return s.send(data.Email, s.noReplyFrom, subject, body)
}

func (s *smtpEmailService) SendPaymentSuccessEmail(ctx context.Context, data PaymentSuccessData) error {
	subject := "Payment Successful"
	body := fmt.Sprintf(`<h3>Hi %s</h3>
<p>We have received your payment successfully. Your internship journey has officially begun!</p>
<p>Internship Domain: %s</p>
<p>Duration: %s</p>
<p>Start Date: %s</p>
<p>Certificate Unlock Date: %s</p>
<p>Your first project will be available in your dashboard shortly.</p>
<a href="https://internvault.com/user-dashboard">Open your Dashboard</a>
<p>Thanks for choosing InternVault!</p>
<p><em>Team InternVault</em></p>`, data.Name, data.Domain, data.Duration, data.StartDate, data.UnlockDate)

	return s.send(data.Email, s.paymentFrom, subject, body)
}

func (s *smtpEmailService) SendPaymentFailedEmail(ctx context.Context, data PaymentFailedData) error {
	subject := "Payment Failed"
	body := fmt.Sprintf(`<h2>Payment Failed</h2>
<p>Dear %s,</p>
<p>Your payment for the %s internship application has failed.</p>
<p>You can try again by visiting your application dashboard.</p>
<p>If you continue to face issues, please contact our support team.</p>
<br>
<p>Best regards,<br>InternVault Team</p>`, data.Name, data.Domain)

	return s.send(data.Email, s.paymentFrom, subject, body)
}

func (s *smtpEmailService) SendProjectCertificateEmail(ctx context.Context, data ProjectCertificateData) error {
	subject := "Project Certificate Unlocked!"
	body := fmt.Sprintf(`<h3>Hi %s</h3>
<p>Congratulations! You have earned your project certificate for the %s track.</p>
<p>Head over to your dashboard to download it.</p>
<a href="https://internvault.com/user-dashboard">Open your Dashboard</a>
<p>Keep building your skills!</p>
<p><em>Team InternVault</em></p>`, data.Name, data.Domain)

	return s.send(data.Email, s.noReplyFrom, subject, body)
}

func (s *smtpEmailService) send(to, from, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: InternVault <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s",
		from, to, subject, body))

	if err := smtp.SendMail(s.smtpAddr, nil, from, []string{to}, msg); err != nil {
		logger.Info("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        to,
			"subject":   subject,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
