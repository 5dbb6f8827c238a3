package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/mock"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestTokenService(revocations store.RevocationStore) *tokenService {
	return NewTokenService(testAppConfig(), revocations, logger.Nop()).(*tokenService)
}

func TestTokenService_IssueVerifyRoundTrip(t *testing.T) {
	svc := newTestTokenService(nil)
	user := models.User{UserID: 42, Username: "alice", Role: models.RoleModerator}

	token, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, token.String())
	assert.NotEmpty(t, token.Claims.ID)

	identity, err := svc.Verify(context.Background(), token.String())
	require.NoError(t, err)
	assert.Equal(t, int64(42), identity.UserID)
	assert.Equal(t, models.RoleModerator, identity.Role)
	assert.Equal(t, token.Claims.ID, identity.TokenID)
}

func TestTokenService_EveryIssueHasNewID(t *testing.T) {
	svc := newTestTokenService(nil)
	user := models.User{UserID: 1, Role: models.RoleUser}

	first, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)
	second, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)

	assert.NotEqual(t, first.Claims.ID, second.Claims.ID)
}

func TestTokenService_Expiry(t *testing.T) {
	svc := newTestTokenService(nil)
	issuedAt := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	svc.now = fixedClock(issuedAt)

	token, err := svc.Issue(context.Background(), models.User{UserID: 1, Role: models.RoleUser})
	require.NoError(t, err)
	assert.True(t, issuedAt.Add(time.Hour).Equal(token.Claims.ExpiresAt.Time))

	svc.now = fixedClock(issuedAt.Add(59 * time.Minute))
	_, err = svc.Verify(context.Background(), token.String())
	require.NoError(t, err)

	svc.now = fixedClock(issuedAt.Add(time.Hour + time.Second))
	_, err = svc.Verify(context.Background(), token.String())
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_InvalidTokens(t *testing.T) {
	svc := newTestTokenService(nil)
	token, err := svc.Issue(context.Background(), models.User{UserID: 1, Role: models.RoleUser})
	require.NoError(t, err)

	otherKey := testAppConfig()
	otherKey.TokenSignKey = "another-key"
	foreignSigned, err := NewTokenService(otherKey, nil, logger.Nop()).Issue(context.Background(), models.User{UserID: 1, Role: models.RoleUser})
	require.NoError(t, err)

	otherIssuer := testAppConfig()
	otherIssuer.TokenIssuer = "someone-else"
	foreignIssued, err := NewTokenService(otherIssuer, nil, logger.Nop()).Issue(context.Background(), models.User{UserID: 1, Role: models.RoleUser})
	require.NoError(t, err)

	raw := token.String()
	tampered := raw[:len(raw)-2] + "xx"
	if tampered == raw {
		tampered = raw[:len(raw)-2] + "yy"
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"tampered signature", tampered},
		{"foreign key", foreignSigned.String()},
		{"foreign issuer", foreignIssued.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestTokenService_UnknownRoleIsInvalid(t *testing.T) {
	svc := newTestTokenService(nil)
	token, err := svc.Issue(context.Background(), models.User{UserID: 1, Role: models.Role("root")})
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), token.String())
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_RoleSnapshot(t *testing.T) {
	storage := store.NewMemoryStorage()
	user := seedUser(t, storage.Users, "alice", models.RoleUser)
	svc := newTestTokenService(nil)

	token, err := svc.Issue(context.Background(), user)
	require.NoError(t, err)

	_, err = storage.Users.UpdateRole(context.Background(), user.UserID, models.RoleAdmin)
	require.NoError(t, err)

	// The token keeps the role it was issued with until it expires.
	identity, err := svc.Verify(context.Background(), token.String())
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, identity.Role)

	fresh, err := svc.Issue(context.Background(), models.User{UserID: user.UserID, Role: models.RoleAdmin})
	require.NoError(t, err)
	identity, err = svc.Verify(context.Background(), fresh.String())
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, identity.Role)
}

func TestTokenService_Revoke(t *testing.T) {
	svc := newTestTokenService(store.NewMemoryRevocationStore())
	ctx := context.Background()

	token, err := svc.Issue(ctx, models.User{UserID: 1, Role: models.RoleUser})
	require.NoError(t, err)
	identity, err := svc.Verify(ctx, token.String())
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, identity))

	_, err = svc.Verify(ctx, token.String())
	assert.ErrorIs(t, err, ErrTokenInvalid)

	other, err := svc.Issue(ctx, models.User{UserID: 1, Role: models.RoleUser})
	require.NoError(t, err)
	_, err = svc.Verify(ctx, other.String())
	assert.NoError(t, err, "revoking one token must not affect others")
}

func TestTokenService_RevokeWithoutTokenID(t *testing.T) {
	svc := newTestTokenService(store.NewMemoryRevocationStore())

	err := svc.Revoke(context.Background(), models.Identity{UserID: 1, Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_RevokeWithoutStore(t *testing.T) {
	svc := newTestTokenService(nil)

	err := svc.Revoke(context.Background(), models.Identity{UserID: 1, Role: models.RoleUser, TokenID: "jti"})
	assert.NoError(t, err)
}

func TestTokenService_RevocationLookupFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	revocations := mock.NewMockRevocationStore(ctrl)
	svc := newTestTokenService(revocations)

	token, err := svc.Issue(context.Background(), models.User{UserID: 1, Role: models.RoleUser})
	require.NoError(t, err)

	lookupErr := errors.New("redis: connection refused")
	revocations.EXPECT().IsRevoked(gomock.Any(), token.Claims.ID).Return(false, lookupErr)

	_, err = svc.Verify(context.Background(), token.String())
	assert.ErrorIs(t, err, lookupErr)
	assert.NotErrorIs(t, err, ErrTokenInvalid)
}
