package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

type actionTokenService struct {
	repository store.ActionTokenRepository

	// hashKey digests token values before they reach the repository.
	hashKey   string
	verifyTTL time.Duration
	resetTTL  time.Duration

	now    func() time.Time
	logger *logger.Logger
}

// NewActionTokenService constructs an ActionTokenService storing tokens in
// repository with the lifetimes and hash key from cfg.
func NewActionTokenService(repository store.ActionTokenRepository, cfg config.App, logger *logger.Logger) ActionTokenService {
	return &actionTokenService{
		repository: repository,
		hashKey:    cfg.ActionTokenHashKey,
		verifyTTL:  cfg.VerifyTokenTTL,
		resetTTL:   cfg.ResetTokenTTL,
		now:        time.Now,
		logger:     logger,
	}
}

func (s *actionTokenService) IssueVerificationToken(ctx context.Context, userID int64) (string, error) {
	return s.issue(ctx, userID, models.PurposeVerifyEmail, s.verifyTTL)
}

func (s *actionTokenService) IssueResetToken(ctx context.Context, userID int64) (string, error) {
	return s.issue(ctx, userID, models.PurposeResetPassword, s.resetTTL)
}

// issue generates a token value and stores its digest in the user's slot
// for purpose, replacing whatever token occupied it.
func (s *actionTokenService) issue(ctx context.Context, userID int64, purpose models.ActionPurpose, ttl time.Duration) (string, error) {
	log := logger.FromContext(ctx)

	value, err := utils.GenerateActionToken()
	if err != nil {
		log.Err(err).Str("purpose", string(purpose)).Msg("action token generation failed")
		return "", fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	now := s.now()
	token := models.ActionToken{
		UserID:    userID,
		Purpose:   purpose,
		TokenHash: utils.HashString(value, s.hashKey),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	err = s.repository.SaveActionToken(ctx, token)
	if errors.Is(err, store.ErrNoUserWasFound) {
		return "", fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if err != nil {
		log.Err(err).Int64("user_id", userID).Str("purpose", string(purpose)).Msg("action token was not saved")
		return "", fmt.Errorf("error saving action token: %w", err)
	}

	return value, nil
}

// Redeem consumes token for purpose. Only one redemption of a token ever
// succeeds; a token issued for another purpose is reported as not found.
func (s *actionTokenService) Redeem(ctx context.Context, token string, purpose models.ActionPurpose) (int64, error) {
	if token == "" || !purpose.IsValid() {
		return 0, ErrTokenNotFound
	}

	consumed, err := s.repository.ConsumeActionToken(ctx, utils.HashString(token, s.hashKey), purpose, s.now())
	switch {
	case err == nil:
		return consumed.UserID, nil
	case errors.Is(err, store.ErrActionTokenNotFound):
		return 0, fmt.Errorf("%w: %w", ErrTokenNotFound, err)
	case errors.Is(err, store.ErrActionTokenConsumed):
		return 0, fmt.Errorf("%w: %w", ErrTokenAlreadyUsed, err)
	case errors.Is(err, store.ErrActionTokenExpired):
		return 0, fmt.Errorf("%w: %w", ErrTokenExpired, err)
	default:
		logger.FromContext(ctx).Err(err).Str("purpose", string(purpose)).Msg("action token redemption failed")
		return 0, fmt.Errorf("error redeeming action token: %w", err)
	}
}
