// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

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
	"github.com/golang-jwt/jwt/v5"
)

// tokenService is the concrete implementation of TokenService.
// It signs HS256 session tokens with a key injected at construction and,
// when a revocation store is configured, rejects revoked token ids.
type tokenService struct {
	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	// revocations may be nil, in which case tokens cannot be revoked.
	revocations store.RevocationStore

	now    func() time.Time
	logger *logger.Logger
}

// NewTokenService constructs a TokenService from the security parameters
// in cfg. revocations may be nil.
func NewTokenService(cfg config.App, revocations store.RevocationStore, logger *logger.Logger) TokenService {
	return &tokenService{
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		revocations:   revocations,
		now:           time.Now,
		logger:        logger,
	}
}

// Issue signs a new session token for user. The token carries the user's
// current role and a fresh jti.
func (s *tokenService) Issue(ctx context.Context, user models.User) (models.Token, error) {
	identity := user.Identity()
	identity.TokenID = utils.GenerateTokenID()

	token, err := utils.GenerateJWTToken(s.tokenIssuer, identity, s.now(), s.tokenDuration, s.tokenSignKey)
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("user_id", user.UserID).Msg("session token was not issued")
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// Verify validates tokenString and returns the identity it carries.
//
// An elapsed expiry is reported as ErrTokenExpired. A bad signature, a
// foreign issuer, a malformed subject, an unknown role or a revoked jti are
// all reported as ErrTokenInvalid.
func (s *tokenService) Verify(ctx context.Context, tokenString string) (models.Identity, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, s.tokenSignKey, s.tokenIssuer, s.now())
	if errors.Is(err, jwt.ErrTokenExpired) {
		return models.Identity{}, fmt.Errorf("%w: %w", ErrTokenExpired, err)
	}
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	identity, err := token.Identity()
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if !identity.Role.IsValid() {
		return models.Identity{}, fmt.Errorf("%w: unknown role %q", ErrTokenInvalid, identity.Role)
	}

	if s.revocations == nil || identity.TokenID == "" {
		return identity, nil
	}

	revoked, err := s.revocations.IsRevoked(ctx, identity.TokenID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("jti", identity.TokenID).Msg("revocation lookup failed")
		return models.Identity{}, fmt.Errorf("error checking token revocation: %w", err)
	}
	if revoked {
		return models.Identity{}, fmt.Errorf("%w: token was revoked", ErrTokenInvalid)
	}

	return identity, nil
}

func (s *tokenService) Revoke(ctx context.Context, identity models.Identity) error {
	if identity.TokenID == "" {
		return fmt.Errorf("%w: token has no id", ErrTokenInvalid)
	}
	if s.revocations == nil {
		return nil
	}

	if err := s.revocations.Revoke(ctx, identity.TokenID, identity.ExpiresAt); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	return nil
}
