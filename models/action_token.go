// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// ActionPurpose tags what an action token may be redeemed for.
type ActionPurpose string

const (
	PurposeVerifyEmail   ActionPurpose = "verify-email"
	PurposeResetPassword ActionPurpose = "reset-password"
)

// IsValid reports whether p is a known purpose.
func (p ActionPurpose) IsValid() bool {
	return p == PurposeVerifyEmail || p == PurposeResetPassword
}

// ActionToken is the persisted form of a single-use, time-limited token
// delivered out of band (by email).
//
// There is at most one row per (UserID, Purpose): issuing a new token
// overwrites the previous one. Only the HMAC digest of the token value is
// stored, the raw value is handed to the user and never persisted.
type ActionToken struct {
	ID        int64         `json:"-"`
	UserID    int64         `json:"user_id"`
	Purpose   ActionPurpose `json:"purpose"`
	TokenHash string        `json:"-"`
	ExpiresAt time.Time     `json:"expires_at"`

	// ConsumedAt is set exactly once, by the redemption that wins.
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the ActionToken model.
func (t ActionToken) TableName() string {
	return "action_tokens"
}

// IsConsumed reports whether the token has already been redeemed.
func (t ActionToken) IsConsumed() bool {
	return t.ConsumedAt != nil
}

// IsExpired reports whether the token is expired at now.
func (t ActionToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
