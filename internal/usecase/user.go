package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/domain"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/port"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/infra/security"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/repository"
)

var (
	// ErrCurrentPasswordInvalid indicates the provided current password is incorrect.
	ErrCurrentPasswordInvalid = errors.New("current password is incorrect")
	// ErrNewPasswordInvalid indicates the desired password fails validation (e.g., matches existing).
	ErrNewPasswordInvalid = errors.New("new password is invalid")
	// ErrNoProfileFields indicates an update request carried nothing updatable.
	ErrNoProfileFields = errors.New("no updatable profile fields provided")
)

// UpdateProfileInput carries the self-service profile fields. Nil pointers
// leave the corresponding column untouched.
type UpdateProfileInput struct {
	FirstName    *string
	LastName     *string
	Email        *string
	ProfileImage *string
}

// UserService handles profile reads and self-service updates.
type UserService struct {
	users     port.UserRepository
	hasher    port.PasswordHasher
	validator port.PasswordPolicyValidator
	codec     *security.TokenCodec
	events    port.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewUserService constructs UserService.
func NewUserService(
	users port.UserRepository,
	hasher port.PasswordHasher,
	validator port.PasswordPolicyValidator,
	codec *security.TokenCodec,
	events port.EventPublisher,
	log *zap.Logger,
) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{
		users:     users,
		hasher:    hasher,
		validator: validator,
		codec:     codec,
		events:    events,
		logger:    log,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *UserService) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Profile returns the account behind the given identifier without its
// credential material.
func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return &sanitized, nil
}

// List returns users matching the shaped query, stripped of credential
// material.
func (s *UserService) List(ctx context.Context, query port.ListQuery) ([]domain.User, error) {
	users, err := s.users.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
		users[i].ResetTokenHash = nil
		users[i].ResetTokenExpires = nil
	}
	return users, nil
}

// UpdateProfile applies the allow-listed profile fields. Password material
// cannot travel through this path.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	fields := make(map[string]any)
	if input.FirstName != nil {
		if v := strings.TrimSpace(*input.FirstName); v != "" {
			fields["first_name"] = v
		}
	}
	if input.LastName != nil {
		if v := strings.TrimSpace(*input.LastName); v != "" {
			fields["last_name"] = v
		}
	}
	if input.Email != nil {
		if v := strings.ToLower(strings.TrimSpace(*input.Email)); v != "" {
			fields["email"] = v
		}
	}
	if input.ProfileImage != nil {
		fields["profile_image"] = strings.TrimSpace(*input.ProfileImage)
	}

	if len(fields) == 0 {
		return nil, ErrNoProfileFields
	}

	user, err := s.users.UpdateProfile(ctx, userID, fields)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return &sanitized, nil
}

// ChangePassword rotates the authenticated user's password after verifying
// the current one, then issues a fresh token so the caller stays logged in.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) (string, error) {
	if currentPassword == "" || newPassword == "" {
		return "", fmt.Errorf("current and new passwords are required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	validCurrent, err := s.hasher.Verify(currentPassword, user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("verify current password: %w", err)
	}
	if !validCurrent {
		return "", ErrCurrentPasswordInvalid
	}

	if err := s.validator.Validate(newPassword); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}

	if matches, err := s.hasher.Verify(newPassword, user.PasswordHash); err != nil {
		return "", fmt.Errorf("validate new password: %w", err)
	} else if matches {
		return "", ErrNewPasswordInvalid
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: %v", ErrWeakPassword, err)
		}
		return "", fmt.Errorf("hash new password: %w", err)
	}

	changedAt := s.now().UTC()
	if err := s.users.UpdatePassword(ctx, user.ID, hashed, changedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("update password: %w", err)
	}

	token, err := s.codec.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	if s.events != nil {
		event := domain.PasswordChangedEvent{
			UserID:    user.ID,
			ChangedAt: changedAt,
			ChangedBy: "user",
		}
		if err := s.events.PublishPasswordChanged(ctx, event); err != nil {
			s.logger.Warn("publish user.password.changed failed",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("password changed", zap.String("user_id", user.ID))

	return token, nil
}
