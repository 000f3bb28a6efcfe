package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"internvault-backend/internal/domains/user/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByEmailToken(ctx context.Context, token string) (*model.User, error)
	GetByResetToken(ctx context.Context, token string) (*model.User, error)

	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	SetEmailToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}
