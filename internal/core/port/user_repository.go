package port

import (
	"context"
	"time"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/domain"
)

// UserRepository exposes persistence behavior for users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	List(ctx context.Context, query ListQuery) ([]domain.User, error)
	UpdateProfile(ctx context.Context, id string, fields map[string]any) (*domain.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string, changedAt time.Time) error
	StoreResetToken(ctx context.Context, id string, tokenHash string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	GetByResetTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
	ResetPassword(ctx context.Context, id string, passwordHash string, changedAt time.Time) error
}
