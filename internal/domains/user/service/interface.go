package service

import (
	"context"

	"github.com/google/uuid"

	"internvault-backend/internal/domains/user/model"
)

type UserService interface {
	Register(ctx context.Context, req model.RegisterRequest) error
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserDTO, error)
}

// ApplicationChecker tells the login flow whether the user already has
// an internship application in flight. Implemented by the application
// repository; declared here to avoid a domain import cycle.
type ApplicationChecker interface {
	HasActiveApplication(ctx context.Context, userID uuid.UUID) (bool, error)
}
