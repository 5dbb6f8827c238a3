package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
)

// actionTokenRepository is the PostgreSQL-backed implementation of
// [ActionTokenRepository] over the "action_tokens" table.
type actionTokenRepository struct {
	*DB
	logger *logger.Logger
}

// NewActionTokenRepository constructs an [ActionTokenRepository] backed by db.
func NewActionTokenRepository(db *DB, logger *logger.Logger) ActionTokenRepository {
	logger.Debug().Msg("creating action token repository")
	return &actionTokenRepository{
		DB:     db,
		logger: logger,
	}
}

// SaveActionToken upserts token into its (user, purpose) slot. The upsert is
// idempotent and therefore retried on transient errors.
func (a *actionTokenRepository) SaveActionToken(ctx context.Context, token models.ActionToken) error {
	log := logger.FromContext(ctx)

	err := a.withRetry(ctx, func() error {
		_, err := a.DB.ExecContext(ctx, saveActionToken,
			token.UserID,
			string(token.Purpose),
			token.TokenHash,
			token.ExpiresAt,
		)
		return err
	})
	if err != nil {
		log.Err(err).
			Str("func", "actionTokenRepository.SaveActionToken").
			Int64("user_id", token.UserID).
			Str("purpose", string(token.Purpose)).
			Msg("failed to save action token")
		if isForeignKeyViolation(err) {
			return ErrNoUserWasFound
		}
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// ConsumeActionToken flips consumed_at with a single conditional UPDATE. When
// the UPDATE matches nothing, the row is looked up to report why.
//
// The UPDATE is not retried: a retry after a lost response could observe
// its own successful consumption as [ErrActionTokenConsumed].
func (a *actionTokenRepository) ConsumeActionToken(ctx context.Context, tokenHash string, purpose models.ActionPurpose, now time.Time) (models.ActionToken, error) {
	log := logger.FromContext(ctx)

	row := a.DB.QueryRowContext(ctx, consumeActionToken, tokenHash, string(purpose), now)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "actionTokenRepository.ConsumeActionToken").Msg("error consuming action token")
		return models.ActionToken{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	token, err := scanActionToken(row)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, ErrActionTokenNotFound) {
		log.Err(err).Str("func", "actionTokenRepository.ConsumeActionToken").Msg("error: scanning error")
		return models.ActionToken{}, err
	}

	return a.explainUnredeemable(ctx, tokenHash, purpose, now)
}

// explainUnredeemable classifies a token that could not be consumed.
func (a *actionTokenRepository) explainUnredeemable(ctx context.Context, tokenHash string, purpose models.ActionPurpose, now time.Time) (models.ActionToken, error) {
	log := logger.FromContext(ctx)

	var token models.ActionToken
	err := a.withRetry(ctx, func() error {
		row := a.DB.QueryRowContext(ctx, findActionToken, tokenHash, string(purpose))
		if err := row.Err(); err != nil {
			return err
		}

		found, err := scanActionToken(row)
		if err != nil {
			return err
		}
		token = found
		return nil
	})

	switch {
	case errors.Is(err, ErrActionTokenNotFound):
		return models.ActionToken{}, ErrActionTokenNotFound
	case err != nil:
		log.Err(err).Str("func", "actionTokenRepository.explainUnredeemable").Msg("error looking up action token")
		return models.ActionToken{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	case token.IsConsumed():
		return models.ActionToken{}, ErrActionTokenConsumed
	case token.IsExpired(now):
		return models.ActionToken{}, ErrActionTokenExpired
	default:
		// the slot was rewritten between the two statements
		return models.ActionToken{}, ErrActionTokenNotFound
	}
}

// DeleteExpiredActionTokens purges expired tokens, consumed or not.
func (a *actionTokenRepository) DeleteExpiredActionTokens(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	var deleted int64
	err := a.withRetry(ctx, func() error {
		result, err := a.DB.ExecContext(ctx, deleteExpiredActionTokens, now)
		if err != nil {
			return err
		}
		deleted, err = result.RowsAffected()
		return err
	})
	if err != nil {
		log.Err(err).Str("func", "actionTokenRepository.DeleteExpiredActionTokens").Msg("failed to purge action tokens")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return deleted, nil
}

func scanActionToken(row rowScanner) (models.ActionToken, error) {
	var (
		token      models.ActionToken
		consumedAt sql.NullTime
	)

	err := row.Scan(
		&token.ID,
		&token.UserID,
		&token.Purpose,
		&token.TokenHash,
		&token.ExpiresAt,
		&consumedAt,
		&token.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ActionToken{}, ErrActionTokenNotFound
	}
	if err != nil {
		return models.ActionToken{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if consumedAt.Valid {
		at := consumedAt.Time
		token.ConsumedAt = &at
	}

	return token, nil
}
