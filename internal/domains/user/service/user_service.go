package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"internvault-backend/internal/domains/user/model"
	"internvault-backend/internal/domains/user/repository"
	"internvault-backend/internal/infrastructure/email"
	"internvault-backend/internal/infrastructure/queue"
	"internvault-backend/pkg/jwt"
	"internvault-backend/pkg/logger"
)

const (
	emailTokenTTL = 24 * time.Hour
	resetTokenTTL = time.Hour
)

// =====================================================
// USER SERVICE IMPLEMENTATION
// =====================================================

type userService struct {
	userRepo    repository.UserRepository
	appChecker  ApplicationChecker
	jwtManager  *jwt.Manager
	enqueuer    queue.TaskEnqueuer
	frontendURL string
}

func NewUserService(
	userRepo repository.UserRepository,
	appChecker ApplicationChecker,
	jwtManager *jwt.Manager,
	enqueuer queue.TaskEnqueuer,
	frontendURL string,
) UserService {
	return &userService{
		userRepo:    userRepo,
		appChecker:  appChecker,
		jwtManager:  jwtManager,
		enqueuer:    enqueuer,
		frontendURL: frontendURL,
	}
}

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) error {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return err
	}

	// Step 2: Reject duplicate email (verified or not)
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, model.ErrUserNotFound) {
		return fmt.Errorf("lookup existing user: %w", err)
	}
	if existing != nil {
		return model.ErrEmailAlreadyExists
	}

	// Step 3: Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	// Step 4: Create user with a pending verification token
	token, err := generateToken()
	if err != nil {
		return err
	}
	expiry := time.Now().Add(emailTokenTTL)

	user := &model.User{
		ID:               uuid.New(),
		Email:            req.Email,
		PasswordHash:     string(hash),
		Name:             req.Name,
		Role:             model.RoleUser,
		IsEmailVerified:  false,
		EmailToken:       &token,
		EmailTokenExpiry: &expiry,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	// Step 5: Queue the verification email
	link := s.frontendURL + "/auth/verify?token=" + token
	if err := s.enqueuer.EnqueueVerificationEmail(ctx, email.VerificationEmailData{
		Email:      user.Email,
		Name:       user.Name,
		VerifyLink: link,
	}); err != nil {
		// Registration already succeeded; the user can ask for a resend.
		logger.Error("Failed to enqueue verification email", err)
	}

	return nil
}

func (s *userService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.userRepo.GetByEmailToken(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.ErrInvalidToken
		}
		return err
	}

	if !user.IsVerificationValid() {
		return model.ErrInvalidToken
	}

	return s.userRepo.MarkEmailVerified(ctx, user.ID)
}

func (s *userService) ResendVerification(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	if user.IsEmailVerified {
		return model.ErrEmailAlreadyVerified
	}

	token, err := generateToken()
	if err != nil {
		return err
	}
	if err := s.userRepo.SetEmailToken(ctx, user.ID, token, time.Now().Add(emailTokenTTL)); err != nil {
		return err
	}

	link := s.frontendURL + "/auth/verify?token=" + token
	return s.enqueuer.EnqueueVerificationEmail(ctx, email.VerificationEmailData{
		Email:      user.Email,
		Name:       user.Name,
		VerifyLink: link,
	})
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Fetch user; treat unknown email same as bad password
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	// Step 3: Check password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	// Step 4: Require a verified email before issuing tokens
	if !user.IsEmailVerified {
		return nil, model.ErrEmailNotVerified
	}

	// Step 5: Issue token pair
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID.String(), user.Email, user.Role.String())
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	// Step 6: Tell the frontend whether an application is in flight
	hasApp, err := s.appChecker.HasActiveApplication(ctx, user.ID)
	if err != nil {
		logger.Error("Failed to check active application", err)
		hasApp = false
	}

	return &model.LoginResponse{
		AccessToken:    accessToken,
		RefreshToken:   refreshToken,
		ExpiresAt:      time.Now().Add(s.jwtManager.AccessExpiry()),
		User:           user.ToDTO(),
		HasApplication: hasApp,
	}, nil
}

func (s *userService) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			// Do not reveal whether the email is registered.
			return nil
		}
		return err
	}
	if !user.IsEmailVerified {
		return nil
	}

	token, err := generateToken()
	if err != nil {
		return err
	}
	if err := s.userRepo.SetResetToken(ctx, user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	link := s.frontendURL + "/reset-password?token=" + token
	return s.enqueuer.EnqueuePasswordResetEmail(ctx, email.PasswordResetData{
		Email:     user.Email,
		Name:      user.Name,
		ResetLink: link,
	})
}

func (s *userService) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := s.userRepo.GetByResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.ErrInvalidToken
		}
		return err
	}

	if !user.IsResetValid() {
		return model.ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, user.ID, string(hash))
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := user.ToDTO()
	return &dto, nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
