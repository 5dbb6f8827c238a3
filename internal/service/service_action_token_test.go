package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/mock"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newMemoryActionTokenService(t *testing.T) (*actionTokenService, *store.MemoryStorage) {
	t.Helper()
	storage := store.NewMemoryStorage()
	svc := NewActionTokenService(storage.ActionTokens, testAppConfig(), logger.Nop()).(*actionTokenService)
	return svc, storage
}

func TestActionTokenService_IssueAndRedeem(t *testing.T) {
	svc, storage := newMemoryActionTokenService(t)
	user := seedUser(t, storage.Users, "alice", models.RoleUser)
	ctx := context.Background()

	token, err := svc.IssueVerificationToken(ctx, user.UserID)
	require.NoError(t, err)
	assert.Len(t, token, utils.ActionTokenLength)

	userID, err := svc.Redeem(ctx, token, models.PurposeVerifyEmail)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, userID)
}

func TestActionTokenService_RedeemTwice(t *testing.T) {
	svc, storage := newMemoryActionTokenService(t)
	user := seedUser(t, storage.Users, "alice", models.RoleUser)
	ctx := context.Background()

	token, err := svc.IssueResetToken(ctx, user.UserID)
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, token, models.PurposeResetPassword)
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, token, models.PurposeResetPassword)
	assert.ErrorIs(t, err, ErrTokenAlreadyUsed)
}

func TestActionTokenService_PurposeMismatch(t *testing.T) {
	svc, storage := newMemoryActionTokenService(t)
	user := seedUser(t, storage.Users, "alice", models.RoleUser)
	ctx := context.Background()

	token, err := svc.IssueVerificationToken(ctx, user.UserID)
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, token, models.PurposeResetPassword)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	// The failed attempt must not consume the token.
	_, err = svc.Redeem(ctx, token, models.PurposeVerifyEmail)
	assert.NoError(t, err)
}

func TestActionTokenService_Expired(t *testing.T) {
	svc, storage := newMemoryActionTokenService(t)
	user := seedUser(t, storage.Users, "alice", models.RoleUser)
	ctx := context.Background()

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(issuedAt)

	token, err := svc.IssueResetToken(ctx, user.UserID)
	require.NoError(t, err)

	svc.now = fixedClock(issuedAt.Add(59 * time.Minute))
	_, err = svc.Redeem(ctx, token, models.PurposeResetPassword)
	require.NoError(t, err, "token must still be valid just before its TTL")

	token, err = svc.IssueResetToken(ctx, user.UserID)
	require.NoError(t, err)

	svc.now = fixedClock(issuedAt.Add(59*time.Minute + time.Hour))
	_, err = svc.Redeem(ctx, token, models.PurposeResetPassword)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestActionTokenService_ReissueInvalidatesPrevious(t *testing.T) {
	svc, storage := newMemoryActionTokenService(t)
	user := seedUser(t, storage.Users, "alice", models.RoleUser)
	ctx := context.Background()

	first, err := svc.IssueVerificationToken(ctx, user.UserID)
	require.NoError(t, err)
	second, err := svc.IssueVerificationToken(ctx, user.UserID)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = svc.Redeem(ctx, first, models.PurposeVerifyEmail)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	userID, err := svc.Redeem(ctx, second, models.PurposeVerifyEmail)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, userID)
}

func TestActionTokenService_PurposesAreIndependent(t *testing.T) {
	svc, storage := newMemoryActionTokenService(t)
	user := seedUser(t, storage.Users, "alice", models.RoleUser)
	ctx := context.Background()

	verify, err := svc.IssueVerificationToken(ctx, user.UserID)
	require.NoError(t, err)
	reset, err := svc.IssueResetToken(ctx, user.UserID)
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, verify, models.PurposeVerifyEmail)
	assert.NoError(t, err)
	_, err = svc.Redeem(ctx, reset, models.PurposeResetPassword)
	assert.NoError(t, err)
}

func TestActionTokenService_UnknownToken(t *testing.T) {
	svc, _ := newMemoryActionTokenService(t)

	for _, token := range []string{"", "does-not-exist"} {
		_, err := svc.Redeem(context.Background(), token, models.PurposeVerifyEmail)
		assert.ErrorIs(t, err, ErrTokenNotFound, "token %q", token)
	}

	_, err := svc.Redeem(context.Background(), "whatever", models.ActionPurpose("login"))
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestActionTokenService_UnknownUser(t *testing.T) {
	svc, _ := newMemoryActionTokenService(t)

	_, err := svc.IssueVerificationToken(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActionTokenService_ConcurrentRedeem(t *testing.T) {
	svc, storage := newMemoryActionTokenService(t)
	user := seedUser(t, storage.Users, "alice", models.RoleUser)
	ctx := context.Background()

	token, err := svc.IssueResetToken(ctx, user.UserID)
	require.NoError(t, err)

	const attempts = 32
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		used      int
	)
	start := make(chan struct{})
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Redeem(ctx, token, models.PurposeResetPassword)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrTokenAlreadyUsed):
				used++
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, used)
}

func TestActionTokenService_StoresDigestOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockActionTokenRepository(ctrl)

	cfg := testAppConfig()
	svc := NewActionTokenService(repo, cfg, logger.Nop()).(*actionTokenService)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	var saved models.ActionToken
	repo.EXPECT().
		SaveActionToken(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, token models.ActionToken) error {
			saved = token
			return nil
		})

	value, err := svc.IssueVerificationToken(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7), saved.UserID)
	assert.Equal(t, models.PurposeVerifyEmail, saved.Purpose)
	assert.NotEqual(t, value, saved.TokenHash)
	assert.Equal(t, utils.HashString(value, cfg.ActionTokenHashKey), saved.TokenHash)
	assert.Equal(t, now.Add(cfg.VerifyTokenTTL), saved.ExpiresAt)
	assert.Nil(t, saved.ConsumedAt)
}

func TestActionTokenService_RepositoryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockActionTokenRepository(ctrl)
	svc := NewActionTokenService(repo, testAppConfig(), logger.Nop())

	dbErr := errors.New("connection reset")
	repo.EXPECT().
		ConsumeActionToken(gomock.Any(), gomock.Any(), models.PurposeVerifyEmail, gomock.Any()).
		Return(models.ActionToken{}, dbErr)

	_, err := svc.Redeem(context.Background(), "token", models.PurposeVerifyEmail)
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrTokenNotFound)
}
