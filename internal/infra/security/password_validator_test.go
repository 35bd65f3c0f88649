package security

import (
	"errors"
	"testing"
)

func TestPolicyValidatorSuccess(t *testing.T) {
	validator := NewPolicyValidator(8, 2)

	if err := validator.Validate("C0mplex!Passphrase#2025"); err != nil {
		t.Fatalf("expected password to pass validation, got %v", err)
	}
}

func TestPolicyValidatorViolations(t *testing.T) {
	validator := NewPolicyValidator(8, 2)

	assertViolation := func(password, expectedCode string) {
		t.Helper()
		err := validator.Validate(password)
		if err == nil {
			t.Fatalf("expected validation error for %s", expectedCode)
		}
		var vErr *PasswordValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected PasswordValidationError, got %T", err)
		}
		if vErr.Code != expectedCode {
			t.Fatalf("expected %s code, got %s", expectedCode, vErr.Code)
		}
	}

	assertViolation("Sh0rt!", "min_length")
	assertViolation("password", "weak_password")
}

func TestCustomPasswordValidator(t *testing.T) {
	validator := NewPasswordValidator(
		MinLengthRule(4),
		RequireDifferentFrom("existing"),
	)

	if err := validator.Validate("existing"); err == nil {
		t.Fatal("expected violation when reusing current password")
	}
	if err := validator.Validate("brand-new"); err != nil {
		t.Fatalf("expected password to pass, got %v", err)
	}
}
