package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/port"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/infra/security"
)

type notifierMock struct {
	sent    []port.PasswordResetMessage
	sendErr error
}

func (m *notifierMock) SendPasswordReset(_ context.Context, msg port.PasswordResetMessage) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newResetFixture(t *testing.T) (*PasswordResetService, *AuthService, *userRepoMock, *notifierMock, *publisherMock) {
	t.Helper()
	repo := newUserRepoMock()
	notifier := &notifierMock{}
	events := &publisherMock{}
	hasher := security.NewBcryptHasher(4)
	validator := security.NewPolicyValidator(8, 2)
	codec := newTestCodec(t, time.Hour)

	auth := NewAuthService(repo, hasher, validator, codec, events, nil)
	reset := NewPasswordResetService(
		repo,
		hasher,
		validator,
		nil,
		codec,
		notifier,
		events,
		"https://pazireshino.com/",
		nil,
	)
	return reset, auth, repo, notifier, events
}

func TestForgotPasswordStoresTokenAndSendsMail(t *testing.T) {
	reset, auth, repo, notifier, events := newResetFixture(t)
	_, created := signupTestUser(t, auth)

	if err := reset.ForgotPassword(context.Background(), "Sara@Example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}

	stored := repo.users[created.ID]
	if stored.ResetTokenHash == nil || stored.ResetTokenExpires == nil {
		t.Fatal("expected a pending reset token on the account")
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(notifier.sent))
	}
	msg := notifier.sent[0]
	if msg.To != "sara@example.com" {
		t.Fatalf("unexpected recipient %q", msg.To)
	}
	prefix := "https://pazireshino.com/api/v1/users/resetPassword/"
	if !strings.HasPrefix(msg.ResetURL, prefix) {
		t.Fatalf("unexpected reset url %q", msg.ResetURL)
	}
	raw := strings.TrimPrefix(msg.ResetURL, prefix)
	if raw == "" {
		t.Fatal("reset url must carry the raw secret")
	}

	// Only the fingerprint may be persisted.
	generator := security.NewResetTokenGenerator()
	if *stored.ResetTokenHash != generator.Fingerprint(raw) {
		t.Fatal("stored hash must be the fingerprint of the mailed secret")
	}
	if *stored.ResetTokenHash == raw {
		t.Fatal("raw secret must never be persisted")
	}

	if len(events.resetRequested) != 1 {
		t.Fatalf("expected 1 reset-requested event, got %d", len(events.resetRequested))
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	reset, _, _, notifier, _ := newResetFixture(t)

	err := reset.ForgotPassword(context.Background(), "ghost@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatal("no mail may be sent for unknown accounts")
	}
}

func TestForgotPasswordRollsBackTokenOnDeliveryFailure(t *testing.T) {
	reset, auth, repo, notifier, _ := newResetFixture(t)
	_, created := signupTestUser(t, auth)

	notifier.sendErr = errors.New("smtp: connection refused")

	err := reset.ForgotPassword(context.Background(), "sara@example.com")
	if !errors.Is(err, ErrResetDeliveryFailed) {
		t.Fatalf("expected ErrResetDeliveryFailed, got %v", err)
	}

	stored := repo.users[created.ID]
	if stored.ResetTokenHash != nil || stored.ResetTokenExpires != nil {
		t.Fatal("pending token must be cleared when delivery fails")
	}
	if repo.clearedResetID != created.ID {
		t.Fatal("expected the rollback to clear the stored token")
	}
}

func TestForgotPasswordOverwritesPreviousToken(t *testing.T) {
	reset, auth, repo, notifier, _ := newResetFixture(t)
	_, created := signupTestUser(t, auth)

	for i := 0; i < 2; i++ {
		if err := reset.ForgotPassword(context.Background(), "sara@example.com"); err != nil {
			t.Fatalf("ForgotPassword #%d: %v", i+1, err)
		}
	}

	if len(notifier.sent) != 2 {
		t.Fatalf("expected 2 mails, got %d", len(notifier.sent))
	}

	prefix := "https://pazireshino.com/api/v1/users/resetPassword/"
	firstRaw := strings.TrimPrefix(notifier.sent[0].ResetURL, prefix)
	generator := security.NewResetTokenGenerator()

	stored := repo.users[created.ID]
	if *stored.ResetTokenHash == generator.Fingerprint(firstRaw) {
		t.Fatal("second request must replace the first token")
	}

	// The superseded secret no longer resets anything.
	if _, _, err := reset.ResetPassword(context.Background(), firstRaw, "brand-new-passphrase-7"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid for stale secret, got %v", err)
	}
}

func TestResetPasswordLogsUserIn(t *testing.T) {
	reset, auth, repo, notifier, events := newResetFixture(t)
	_, created := signupTestUser(t, auth)

	if err := reset.ForgotPassword(context.Background(), "sara@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	prefix := "https://pazireshino.com/api/v1/users/resetPassword/"
	raw := strings.TrimPrefix(notifier.sent[0].ResetURL, prefix)

	const newPassword = "saffron-glacier-melody-3"
	token, user, err := reset.ResetPassword(context.Background(), raw, newPassword)
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if user.PasswordHash != "" {
		t.Fatal("returned user must not carry the password hash")
	}
	if user.PasswordChangedAt == nil {
		t.Fatal("expected the change timestamp to be set")
	}

	stored := repo.users[created.ID]
	if stored.ResetTokenHash != nil {
		t.Fatal("consumed token must be cleared")
	}

	// The freshly issued token passes the guard despite the password change.
	if _, err := auth.Authorize(context.Background(), token); err != nil {
		t.Fatalf("auto-login token rejected: %v", err)
	}

	// Old credentials are gone, new ones work.
	if _, _, err := auth.Login(context.Background(), "sara@example.com", strongPassword); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, _, err := auth.Login(context.Background(), "sara@example.com", newPassword); err != nil {
		t.Fatalf("new password must work: %v", err)
	}

	if len(events.changed) != 1 {
		t.Fatalf("expected 1 password-changed event, got %d", len(events.changed))
	}
	if events.changed[0].ChangedBy != "password_reset" {
		t.Fatalf("unexpected ChangedBy %q", events.changed[0].ChangedBy)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	reset, auth, _, notifier, _ := newResetFixture(t)
	signupTestUser(t, auth)

	base := time.Now()
	reset.WithClock(func() time.Time { return base })
	reset.WithTTL(10 * time.Minute)

	if err := reset.ForgotPassword(context.Background(), "sara@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	prefix := "https://pazireshino.com/api/v1/users/resetPassword/"
	raw := strings.TrimPrefix(notifier.sent[0].ResetURL, prefix)

	reset.WithClock(func() time.Time { return base.Add(11 * time.Minute) })

	_, _, err := reset.ResetPassword(context.Background(), raw, "saffron-glacier-melody-3")
	if !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid, got %v", err)
	}
}

func TestResetPasswordBogusToken(t *testing.T) {
	reset, _, _, _, _ := newResetFixture(t)

	for _, raw := range []string{"", "definitely-not-issued"} {
		_, _, err := reset.ResetPassword(context.Background(), raw, "saffron-glacier-melody-3")
		if !errors.Is(err, ErrResetTokenInvalid) {
			t.Fatalf("ResetPassword(%q): expected ErrResetTokenInvalid, got %v", raw, err)
		}
	}
}

func TestResetPasswordRejectsWeakReplacement(t *testing.T) {
	reset, auth, _, notifier, _ := newResetFixture(t)
	signupTestUser(t, auth)

	if err := reset.ForgotPassword(context.Background(), "sara@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	prefix := "https://pazireshino.com/api/v1/users/resetPassword/"
	raw := strings.TrimPrefix(notifier.sent[0].ResetURL, prefix)

	_, _, err := reset.ResetPassword(context.Background(), raw, "password")
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}
