package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-task-keeper/models"
)

type memoryActionTokenRepository struct {
	db *memoryDB
}

func (r *memoryActionTokenRepository) SaveActionToken(_ context.Context, token models.ActionToken) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[token.UserID]; !ok {
		return ErrNoUserWasFound
	}

	slot := tokenSlot{userID: token.UserID, purpose: token.Purpose}
	if previous, ok := r.db.tokens[slot]; ok {
		delete(r.db.tokenHashes, previous.TokenHash)
		token.ID = previous.ID
	} else {
		r.db.lastTokenID++
		token.ID = r.db.lastTokenID
	}

	token.ConsumedAt = nil
	token.CreatedAt = r.db.now()
	r.db.tokens[slot] = token
	r.db.tokenHashes[token.TokenHash] = slot

	return nil
}

// ConsumeActionToken checks and sets consumed_at under the write lock, so
// concurrent callers are serialized and only the first one succeeds.
func (r *memoryActionTokenRepository) ConsumeActionToken(_ context.Context, tokenHash string, purpose models.ActionPurpose, now time.Time) (models.ActionToken, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	slot, ok := r.db.tokenHashes[tokenHash]
	if !ok || slot.purpose != purpose {
		return models.ActionToken{}, ErrActionTokenNotFound
	}

	token := r.db.tokens[slot]
	switch {
	case token.IsConsumed():
		return models.ActionToken{}, ErrActionTokenConsumed
	case token.IsExpired(now):
		return models.ActionToken{}, ErrActionTokenExpired
	}

	consumedAt := now
	token.ConsumedAt = &consumedAt
	r.db.tokens[slot] = token

	return token, nil
}

func (r *memoryActionTokenRepository) DeleteExpiredActionTokens(_ context.Context, now time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var deleted int64
	for slot, token := range r.db.tokens {
		if token.IsExpired(now) {
			delete(r.db.tokenHashes, token.TokenHash)
			delete(r.db.tokens, slot)
			deleted++
		}
	}

	return deleted, nil
}
