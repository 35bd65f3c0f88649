package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/domain"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/repository"
)

func newUserRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "phone", "password_hash",
		"profile_image", "password_changed_at", "reset_token_hash",
		"reset_token_expires_at", "created_at",
	})
}

func TestUserRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	createdAt := time.Now().UTC()
	phone := "+989121234567"
	user := domain.User{
		ID:           "user-123",
		FirstName:    "Sara",
		LastName:     "Mohammadi",
		Email:        "sara@example.com",
		Phone:        &phone,
		PasswordHash: "$2a$12$hash",
		CreatedAt:    createdAt,
	}

	mock.ExpectExec(`INSERT INTO apply\.users`).
		WithArgs(
			user.ID,
			user.FirstName,
			user.LastName,
			user.Email,
			phone,
			user.PasswordHash,
			nil,
			createdAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectExec(`INSERT INTO apply\.users`).
		WithArgs(
			"user-123", "Sara", "Mohammadi", "sara@example.com", nil,
			"$2a$12$hash", nil, pgxmock.AnyArg(),
		).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err = repo.Create(context.Background(), domain.User{
		ID:           "user-123",
		FirstName:    "Sara",
		LastName:     "Mohammadi",
		Email:        "sara@example.com",
		PasswordHash: "$2a$12$hash",
		CreatedAt:    time.Now().UTC(),
	})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestUserRepository_GetByIdentifier(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	createdAt := time.Now().UTC()
	rows := newUserRows().AddRow(
		"user-1", "Sara", "Mohammadi", "sara@example.com", "+989121234567",
		"$2a$12$hash", nil, nil, nil, nil, createdAt,
	)

	mock.ExpectQuery(`SELECT .*FROM apply\.users`).
		WithArgs("sara@example.com", "sara@example.com").
		WillReturnRows(rows)

	user, err := repo.GetByIdentifier(context.Background(), "sara@example.com")
	if err != nil {
		t.Fatalf("GetByIdentifier returned error: %v", err)
	}
	if user.ID != "user-1" {
		t.Fatalf("expected user id user-1, got %s", user.ID)
	}
	if user.Phone == nil || *user.Phone != "+989121234567" {
		t.Fatalf("unexpected phone: %v", user.Phone)
	}
	if user.PasswordChangedAt != nil {
		t.Fatalf("expected nil password_changed_at, got %v", user.PasswordChangedAt)
	}
}

func TestUserRepository_GetByIdentifierNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT .*FROM apply\.users`).
		WithArgs("ghost@example.com", "ghost@example.com").
		WillReturnRows(newUserRows())

	if _, err := repo.GetByIdentifier(context.Background(), "ghost@example.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_GetByResetTokenHash(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	now := time.Now().UTC()
	expires := now.Add(5 * time.Minute)
	hash := "fingerprint-abc"
	rows := newUserRows().AddRow(
		"user-1", "Sara", "Mohammadi", "sara@example.com", nil,
		"$2a$12$hash", nil, nil, hash, &expires, now.Add(-time.Hour),
	)

	mock.ExpectQuery(`SELECT .*FROM apply\.users WHERE reset_token_hash = \$1 AND reset_token_expires_at > \$2`).
		WithArgs(hash, now).
		WillReturnRows(rows)

	user, err := repo.GetByResetTokenHash(context.Background(), hash, now)
	if err != nil {
		t.Fatalf("GetByResetTokenHash returned error: %v", err)
	}
	if user.ResetTokenHash == nil || *user.ResetTokenHash != hash {
		t.Fatalf("unexpected reset token hash: %v", user.ResetTokenHash)
	}
}

func TestUserRepository_ResetPassword(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	changedAt := time.Now().UTC()
	mock.ExpectExec(`UPDATE apply\.users SET`).
		WithArgs("$2a$12$newhash", changedAt, nil, nil, "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.ResetPassword(context.Background(), "user-1", "$2a$12$newhash", changedAt); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_StoreResetTokenNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	expires := time.Now().UTC().Add(10 * time.Minute)
	mock.ExpectExec(`UPDATE apply\.users SET`).
		WithArgs("fingerprint-abc", expires, "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.StoreResetToken(context.Background(), "ghost", "fingerprint-abc", expires); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_UpdatePasswordClearsResetToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)

	changedAt := time.Now().UTC()
	mock.ExpectExec(`UPDATE apply\.users SET password_hash = \$1, password_changed_at = \$2, reset_token_hash = \$3, reset_token_expires_at = \$4`).
		WithArgs("$2a$12$newhash", changedAt, nil, nil, "user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.UpdatePassword(context.Background(), "user-1", "$2a$12$newhash", changedAt); err != nil {
		t.Fatalf("UpdatePassword returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
