package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
)

func TestPostgresErrorClassifier_Classify(t *testing.T) {
	c := NewPostgresErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{"nil", nil, NonRetryable},
		{"plain error", errors.New("boom"), NonRetryable},
		{"unique violation", pgError(pgerrcode.UniqueViolation), NonRetryable},
		{"connection failure", pgError(pgerrcode.ConnectionFailure), Retryable},
		{"wrapped deadlock", fmt.Errorf("exec: %w", pgError(pgerrcode.DeadlockDetected)), Retryable},
		{"serialization failure", pgError(pgerrcode.SerializationFailure), Retryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
		})
	}
}

func TestDB_withRetry(t *testing.T) {
	newDB := func() *DB {
		return &DB{
			logger:             logger.Nop(),
			errorClassificator: NewPostgresErrorClassifier(),
			retryDelays:        []time.Duration{time.Millisecond, time.Millisecond},
		}
	}

	t.Run("retries until success", func(t *testing.T) {
		calls := 0
		err := newDB().withRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return pgError(pgerrcode.ConnectionFailure)
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on non-retryable", func(t *testing.T) {
		calls := 0
		err := newDB().withRetry(context.Background(), func() error {
			calls++
			return pgError(pgerrcode.UniqueViolation)
		})
		assert.True(t, isUniqueViolation(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after the last delay", func(t *testing.T) {
		calls := 0
		err := newDB().withRetry(context.Background(), func() error {
			calls++
			return pgError(pgerrcode.CannotConnectNow)
		})
		assert.Error(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		db := newDB()
		db.retryDelays = []time.Duration{time.Hour}
		err := db.withRetry(ctx, func() error {
			return pgError(pgerrcode.ConnectionFailure)
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
