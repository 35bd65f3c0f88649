package security

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt truncates silently beyond 72 bytes, so longer inputs are rejected
// up front instead.
const maxPasswordBytes = 72

// ErrPasswordTooLong indicates the password exceeds the bcrypt input limit.
var ErrPasswordTooLong = errors.New("security: password longer than 72 bytes")

// BcryptHasher hashes and verifies passwords with bcrypt. A semaphore caps
// the number of concurrent hashing operations so a burst of signups cannot
// exhaust CPU.
type BcryptHasher struct {
	cost int
	sem  chan struct{}
}

// NewBcryptHasher constructs a hasher with the provided cost factor.
// Costs outside the bcrypt range fall back to the default of 12.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = 12
	}
	return &BcryptHasher{
		cost: cost,
		sem:  make(chan struct{}, runtime.GOMAXPROCS(0)),
	}
}

// Cost reports the configured cost factor.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash generates a bcrypt hash for the provided password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	h.sem <- struct{}{}
	defer func() { <-h.sem }()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify compares the provided password against a stored bcrypt hash.
// A mismatch is reported as (false, nil); only infrastructure failures
// surface as errors.
func (h *BcryptHasher) Verify(password, encoded string) (bool, error) {
	if password == "" || encoded == "" {
		return false, nil
	}
	if len(password) > maxPasswordBytes {
		return false, nil
	}

	h.sem <- struct{}{}
	defer func() { <-h.sem }()

	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verify password: %w", err)
	}
}
