// Package cryptox wraps password hashing so the rest of the codebase never
// touches bcrypt directly.
package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is used when the configured cost is out of bcrypt's range.
const DefaultCost = 10

var ErrMismatch = errors.New("cryptox: password does not match")

// HashPassword produces a salted, one-way bcrypt hash of the password at the
// given cost factor.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext candidate against a bcrypt hash using
// the library's constant-time comparison. Returns ErrMismatch on failure.
func VerifyPassword(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}
	return nil
}
