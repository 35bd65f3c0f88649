package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// resetTokenBytes is the entropy of a password reset secret.
const resetTokenBytes = 32

// GenerateSecureToken returns a base64 URL-safe random string using the specified number of random bytes.
func GenerateSecureToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken calculates a SHA-256 hash of the provided value.
func HashToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// ResetTokenGenerator mints single-use password recovery secrets. The raw
// secret is mailed to the user; only its fingerprint is ever persisted.
type ResetTokenGenerator struct {
	byteLength int
}

// NewResetTokenGenerator constructs a generator with the standard entropy.
func NewResetTokenGenerator() *ResetTokenGenerator {
	return &ResetTokenGenerator{byteLength: resetTokenBytes}
}

// Generate returns a fresh recovery secret along with its fingerprint.
func (g *ResetTokenGenerator) Generate() (raw string, fingerprint string, err error) {
	raw, err = GenerateSecureToken(g.byteLength)
	if err != nil {
		return "", "", err
	}
	return raw, HashToken(raw), nil
}

// Fingerprint recomputes the stored form of a presented recovery secret.
func (g *ResetTokenGenerator) Fingerprint(raw string) string {
	return HashToken(raw)
}
