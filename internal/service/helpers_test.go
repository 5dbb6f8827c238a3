package service

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct-horse"

func testAppConfig() config.App {
	return config.App{
		TokenSignKey:       "test-sign-key",
		TokenIssuer:        "test-issuer",
		TokenDuration:      time.Hour,
		ActionTokenHashKey: "test-hash-key",
		VerifyTokenTTL:     24 * time.Hour,
		ResetTokenTTL:      time.Hour,
		BcryptCost:         bcrypt.MinCost,
	}
}

// seedUser stores a user whose password is testPassword.
func seedUser(t *testing.T, users store.UserRepository, username string, role models.Role) models.User {
	t.Helper()

	hash, err := utils.HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(t, err)

	user, err := users.CreateUser(context.Background(), models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
	})
	require.NoError(t, err)
	return user
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
