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
	"github.com/HosseinHeydarpour/apply-app-backend/internal/infra/logger"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/infra/security"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/repository"
)

const defaultResetTTL = 10 * time.Minute

var (
	// ErrResetDeliveryFailed indicates the reset email could not be sent; the
	// pending token has been rolled back.
	ErrResetDeliveryFailed = errors.New("could not send password reset email")
	// ErrResetTokenInvalid indicates the supplied reset token is invalid or expired.
	ErrResetTokenInvalid = errors.New("password reset token is invalid or has expired")
)

// PasswordResetService coordinates the forgot/reset password flow.
type PasswordResetService struct {
	users     port.UserRepository
	hasher    port.PasswordHasher
	validator port.PasswordPolicyValidator
	generator *security.ResetTokenGenerator
	codec     *security.TokenCodec
	notifier  port.Notifier
	events    port.EventPublisher
	logger    *zap.Logger
	baseURL   string
	now       func() time.Time
	resetTTL  time.Duration
}

// NewPasswordResetService constructs a PasswordResetService.
func NewPasswordResetService(
	users port.UserRepository,
	hasher port.PasswordHasher,
	validator port.PasswordPolicyValidator,
	generator *security.ResetTokenGenerator,
	codec *security.TokenCodec,
	notifier port.Notifier,
	events port.EventPublisher,
	baseURL string,
	log *zap.Logger,
) *PasswordResetService {
	if generator == nil {
		generator = security.NewResetTokenGenerator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PasswordResetService{
		users:     users,
		hasher:    hasher,
		validator: validator,
		generator: generator,
		codec:     codec,
		notifier:  notifier,
		events:    events,
		logger:    log,
		baseURL:   strings.TrimRight(baseURL, "/"),
		now:       time.Now,
		resetTTL:  defaultResetTTL,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *PasswordResetService) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// WithTTL overrides the reset token lifetime.
func (s *PasswordResetService) WithTTL(ttl time.Duration) {
	if ttl > 0 {
		s.resetTTL = ttl
	}
}

// ForgotPassword mints a recovery token for the account behind the email and
// mails the reset link. If delivery fails the pending token is cleared so a
// dead secret never lingers on the account. A repeated request overwrites the
// previous token.
func (s *PasswordResetService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email is required")
	}

	user, err := s.users.GetByIdentifier(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	raw, fingerprint, err := s.generator.Generate()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	expiresAt := s.now().UTC().Add(s.resetTTL)
	if err := s.users.StoreResetToken(ctx, user.ID, fingerprint, expiresAt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	msg := port.PasswordResetMessage{
		To:       user.Email,
		Name:     user.FirstName,
		ResetURL: fmt.Sprintf("%s/api/v1/users/resetPassword/%s", s.baseURL, raw),
		Expires:  expiresAt,
	}
	if err := s.notifier.SendPasswordReset(ctx, msg); err != nil {
		s.logger.Error("reset email delivery failed",
			zap.String("user_id", user.ID),
			zap.String("email", logger.MaskEmail(user.Email)),
			zap.Error(err),
		)
		if rollbackErr := s.users.ClearResetToken(ctx, user.ID); rollbackErr != nil {
			s.logger.Error("reset token rollback failed",
				zap.String("user_id", user.ID),
				zap.Error(rollbackErr),
			)
		}
		return ErrResetDeliveryFailed
	}

	if s.events != nil {
		event := domain.PasswordResetRequestedEvent{
			UserID:            user.ID,
			RequestedAt:       s.now().UTC(),
			MaskedDestination: logger.MaskEmail(user.Email),
			ExpiresAt:         expiresAt,
		}
		if err := s.events.PublishPasswordResetRequested(ctx, event); err != nil {
			s.logger.Warn("publish user.password.reset_requested failed",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("password reset requested",
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
		zap.Time("expires_at", expiresAt),
	)

	return nil
}

// ResetPassword finalizes a recovery: the presented secret must match an
// unexpired fingerprint, the new password must satisfy policy, and on success
// the user is logged in with a fresh token.
func (s *PasswordResetService) ResetPassword(ctx context.Context, rawToken, newPassword string) (string, domain.User, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return "", domain.User{}, ErrResetTokenInvalid
	}
	if newPassword == "" {
		return "", domain.User{}, fmt.Errorf("new password is required")
	}

	fingerprint := s.generator.Fingerprint(rawToken)
	user, err := s.users.GetByResetTokenHash(ctx, fingerprint, s.now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", domain.User{}, ErrResetTokenInvalid
		}
		return "", domain.User{}, fmt.Errorf("lookup reset token: %w", err)
	}

	if err := s.validator.Validate(newPassword); err != nil {
		return "", domain.User{}, fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return "", domain.User{}, fmt.Errorf("%w: %v", ErrWeakPassword, err)
		}
		return "", domain.User{}, fmt.Errorf("hash new password: %w", err)
	}

	changedAt := s.now().UTC()
	if err := s.users.ResetPassword(ctx, user.ID, hashed, changedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", domain.User{}, ErrResetTokenInvalid
		}
		return "", domain.User{}, fmt.Errorf("reset password: %w", err)
	}

	token, err := s.codec.Issue(user.ID)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("issue token: %w", err)
	}

	if s.events != nil {
		event := domain.PasswordChangedEvent{
			UserID:    user.ID,
			ChangedAt: changedAt,
			ChangedBy: "password_reset",
		}
		if err := s.events.PublishPasswordChanged(ctx, event); err != nil {
			s.logger.Warn("publish user.password.changed failed",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("password reset completed", zap.String("user_id", user.ID))

	sanitized := *user
	sanitized.PasswordHash = ""
	sanitized.ResetTokenHash = nil
	sanitized.ResetTokenExpires = nil
	now := changedAt
	sanitized.PasswordChangedAt = &now

	return token, sanitized, nil
}
