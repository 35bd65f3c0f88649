package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/domain"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/port"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/infra/logger"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/infra/security"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/repository"
)

var (
	// ErrMissingCredentials indicates the identifier or password was not provided.
	ErrMissingCredentials = errors.New("email and password are required")
	// ErrInvalidCredentials indicates the provided identifier or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken indicates the email or phone is already registered.
	ErrEmailTaken = errors.New("email or phone already registered")
	// ErrWeakPassword indicates the desired password fails the strength policy.
	ErrWeakPassword = errors.New("password does not meet strength requirements")
	// ErrMissingToken indicates no access token accompanied a guarded request.
	ErrMissingToken = errors.New("access token is required")
	// ErrInvalidAccessToken indicates the provided access token is malformed or signature validation failed.
	ErrInvalidAccessToken = errors.New("invalid access token")
	// ErrExpiredAccessToken indicates the provided access token has expired.
	ErrExpiredAccessToken = errors.New("access token expired")
	// ErrUserGone indicates the token's subject no longer exists.
	ErrUserGone = errors.New("user belonging to this token no longer exists")
	// ErrPasswordChanged indicates the password changed after the token was issued.
	ErrPasswordChanged = errors.New("password changed after token was issued")
	// ErrUserNotFound indicates no account matches the supplied identifier.
	ErrUserNotFound = errors.New("user not found")
)

// SignupInput carries the registration payload.
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
}

// AuthService coordinates registration, login, and token authorization.
type AuthService struct {
	users     port.UserRepository
	hasher    port.PasswordHasher
	validator port.PasswordPolicyValidator
	codec     *security.TokenCodec
	events    port.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	users port.UserRepository,
	hasher port.PasswordHasher,
	validator port.PasswordPolicyValidator,
	codec *security.TokenCodec,
	events port.EventPublisher,
	log *zap.Logger,
) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
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
func (s *AuthService) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Signup registers a new account and logs it in immediately.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (string, domain.User, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)

	if input.FirstName == "" || input.LastName == "" {
		return "", domain.User{}, fmt.Errorf("first and last name are required")
	}
	if input.Email == "" || input.Password == "" {
		return "", domain.User{}, ErrMissingCredentials
	}

	if err := s.validator.Validate(input.Password); err != nil {
		return "", domain.User{}, fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return "", domain.User{}, fmt.Errorf("%w: %v", ErrWeakPassword, err)
		}
		return "", domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hashed,
		CreatedAt:    s.now().UTC(),
	}
	if input.Phone != "" {
		user.Phone = &input.Phone
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", domain.User{}, ErrEmailTaken
		}
		return "", domain.User{}, fmt.Errorf("create user: %w", err)
	}

	token, err := s.codec.Issue(user.ID)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("issue token: %w", err)
	}

	if s.events != nil {
		event := domain.UserRegisteredEvent{
			UserID:       user.ID,
			Email:        user.Email,
			FullName:     user.FullName(),
			RegisteredAt: user.CreatedAt,
		}
		if err := s.events.PublishUserRegistered(ctx, event); err != nil {
			s.logger.Warn("publish user.registered failed",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
	)

	sanitized := user
	sanitized.PasswordHash = ""

	return token, sanitized, nil
}

// Login validates credentials and issues an access token. A missing account
// and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return "", domain.User{}, ErrMissingCredentials
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", domain.User{}, ErrInvalidCredentials
		}
		return "", domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", domain.User{}, ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.ID)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("issue token: %w", err)
	}

	sanitized := *user
	sanitized.PasswordHash = ""

	return token, sanitized, nil
}

// Authorize verifies an access token and resolves its subject: the token must
// parse, the account must still exist, and the password must not have changed
// since the token was issued.
func (s *AuthService) Authorize(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := s.codec.Verify(token)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return nil, ErrExpiredAccessToken
		}
		return nil, ErrInvalidAccessToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserGone
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user.PasswordChangedAfter(claims.IssuedAt) {
		return nil, ErrPasswordChanged
	}

	sanitized := *user
	sanitized.PasswordHash = ""

	return &sanitized, nil
}
