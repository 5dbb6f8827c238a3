package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch is returned by ComparePassword when the password does
// not match the stored hash.
var ErrPasswordMismatch = errors.New("password does not match")

// HashPassword returns the bcrypt hash of password at the given cost.
// A cost outside bcrypt's accepted range falls back to bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hash), nil
}

// DummyPasswordHash returns a bcrypt hash of a random password at cost.
// Comparing against it takes as long as checking a real hash of the same
// cost and never succeeds in practice, so it stands in for the hash of an
// unknown account.
func DummyPasswordHash(cost int) (string, error) {
	password, err := GenerateActionToken()
	if err != nil {
		return "", fmt.Errorf("error generating dummy password: %w", err)
	}
	return HashPassword(password, cost)
}

// ComparePassword checks password against a bcrypt hash.
// An empty hash never matches.
func ComparePassword(hash, password string) error {
	if hash == "" {
		return ErrPasswordMismatch
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	if err != nil {
		return fmt.Errorf("error comparing password: %w", err)
	}
	return nil
}
