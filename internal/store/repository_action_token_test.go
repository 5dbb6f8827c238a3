package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var actionTokenRowColumns = []string{"id", "user_id", "purpose", "token_hash", "expires_at", "consumed_at", "created_at"}

func newTestActionTokenRepo(t *testing.T) (*actionTokenRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	l := logger.Nop()
	return &actionTokenRepository{DB: &DB{DB: db, logger: l}, logger: l}, mock, db
}

func TestActionTokenRepository_SaveActionToken(t *testing.T) {
	repo, mock, db := newTestActionTokenRepo(t)
	defer db.Close()

	expires := time.Now().Add(time.Hour)
	mock.ExpectExec("INSERT INTO action_tokens").
		WithArgs(int64(1), "verify-email", "digest", expires).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.SaveActionToken(context.Background(), models.ActionToken{
		UserID:    1,
		Purpose:   models.PurposeVerifyEmail,
		TokenHash: "digest",
		ExpiresAt: expires,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActionTokenRepository_SaveActionToken_UnknownUser(t *testing.T) {
	repo, mock, db := newTestActionTokenRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO action_tokens").
		WillReturnError(pgError(pgerrcode.ForeignKeyViolation))

	err := repo.SaveActionToken(context.Background(), models.ActionToken{UserID: 404, Purpose: models.PurposeResetPassword})
	assert.ErrorIs(t, err, ErrNoUserWasFound)
}

func TestActionTokenRepository_ConsumeActionToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		lookup  *sqlmock.Rows
		wantErr error
	}{
		{
			name:    "unknown digest",
			lookup:  sqlmock.NewRows(actionTokenRowColumns),
			wantErr: ErrActionTokenNotFound,
		},
		{
			name: "already consumed",
			lookup: sqlmock.NewRows(actionTokenRowColumns).
				AddRow(1, 2, "reset-password", "digest", now.Add(time.Hour), now.Add(-time.Minute), now.Add(-time.Hour)),
			wantErr: ErrActionTokenConsumed,
		},
		{
			name: "expired",
			lookup: sqlmock.NewRows(actionTokenRowColumns).
				AddRow(1, 2, "reset-password", "digest", now.Add(-time.Second), nil, now.Add(-time.Hour)),
			wantErr: ErrActionTokenExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newTestActionTokenRepo(t)
			defer db.Close()

			mock.ExpectQuery("UPDATE action_tokens").
				WithArgs("digest", "reset-password", now).
				WillReturnRows(sqlmock.NewRows(actionTokenRowColumns))
			mock.ExpectQuery("SELECT id").
				WithArgs("digest", "reset-password").
				WillReturnRows(tt.lookup)

			_, err := repo.ConsumeActionToken(context.Background(), "digest", models.PurposeResetPassword, now)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestActionTokenRepository_ConsumeActionToken_Success(t *testing.T) {
	repo, mock, db := newTestActionTokenRepo(t)
	defer db.Close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("UPDATE action_tokens").
		WithArgs("digest", "verify-email", now).
		WillReturnRows(sqlmock.NewRows(actionTokenRowColumns).
			AddRow(5, 2, "verify-email", "digest", now.Add(time.Hour), now, now.Add(-time.Hour)))

	token, err := repo.ConsumeActionToken(context.Background(), "digest", models.PurposeVerifyEmail, now)
	require.NoError(t, err)

	assert.Equal(t, int64(2), token.UserID)
	require.NotNil(t, token.ConsumedAt)
	assert.True(t, token.ConsumedAt.Equal(now))
}

func TestActionTokenRepository_ConsumeActionToken_DBError(t *testing.T) {
	repo, mock, db := newTestActionTokenRepo(t)
	defer db.Close()

	mock.ExpectQuery("UPDATE action_tokens").WillReturnError(errors.New("boom"))

	_, err := repo.ConsumeActionToken(context.Background(), "digest", models.PurposeVerifyEmail, time.Now())
	assert.ErrorIs(t, err, ErrExecutingStatement)
}

func TestActionTokenRepository_DeleteExpiredActionTokens(t *testing.T) {
	repo, mock, db := newTestActionTokenRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM action_tokens WHERE expires_at <= $1;")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := repo.DeleteExpiredActionTokens(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}
