package utils

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ActionTokenLength is the number of characters in an action token value.
// With the 64-symbol nanoid alphabet this gives 192 bits of entropy.
const ActionTokenLength = 32

// GenerateActionToken returns a new URL-safe random token value.
func GenerateActionToken() (string, error) {
	value, err := gonanoid.New(ActionTokenLength)
	if err != nil {
		return "", fmt.Errorf("error generating action token: %w", err)
	}
	return value, nil
}

// GenerateTokenID returns a new unique identifier for a session token (jti).
// Time-ordered UUIDv7 is preferred, falling back to a random UUIDv4.
func GenerateTokenID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
