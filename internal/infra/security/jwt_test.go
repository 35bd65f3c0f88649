package security

import (
	"errors"
	"testing"
	"time"
)

func newTestCodec(t *testing.T, now time.Time, ttl time.Duration) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec("test-signing-secret", ttl)
	if err != nil {
		t.Fatalf("NewTokenCodec returned error: %v", err)
	}
	return codec.WithClock(func() time.Time { return now })
}

func TestTokenCodecIssueAndVerify(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	codec := newTestCodec(t, now, time.Hour)

	token, err := codec.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("expected subject user-123, got %s", claims.UserID)
	}
	if !claims.IssuedAt.Equal(now) {
		t.Fatalf("expected iat %v, got %v", now, claims.IssuedAt)
	}
	if !claims.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected exp %v, got %v", now.Add(time.Hour), claims.ExpiresAt)
	}
}

func TestTokenCodecVerifyExpired(t *testing.T) {
	issuedAt := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	codec := newTestCodec(t, issuedAt, time.Minute)

	token, err := codec.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	codec.WithClock(func() time.Time { return issuedAt.Add(2 * time.Minute) })

	if _, err := codec.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenCodecVerifyMalformed(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	codec := newTestCodec(t, now, time.Hour)

	for _, tok := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		if _, err := codec.Verify(tok); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("expected ErrTokenMalformed for %q, got %v", tok, err)
		}
	}
}

func TestTokenCodecVerifyTamperedSignature(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	codec := newTestCodec(t, now, time.Hour)

	token, err := codec.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	other, err := NewTokenCodec("a-different-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec returned error: %v", err)
	}
	other.WithClock(func() time.Time { return now })

	if _, err := other.Verify(token); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for wrong secret, got %v", err)
	}
}

func TestResetTokenGeneratorFingerprintRoundTrip(t *testing.T) {
	gen := NewResetTokenGenerator()

	raw, fingerprint, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if raw == "" || fingerprint == "" {
		t.Fatal("Generate returned empty values")
	}
	if gen.Fingerprint(raw) != fingerprint {
		t.Fatal("Fingerprint does not match generated value")
	}

	raw2, fingerprint2, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if raw2 == raw || fingerprint2 == fingerprint {
		t.Fatal("expected distinct secrets across generations")
	}
}
