package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/mock"
	"go.uber.org/mock/gomock"
)

func TestActionTokenPurger_Purge(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockActionTokenRepository(ctrl)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewActionTokenPurger(repo, time.Hour, logger.Nop())
	p.now = func() time.Time { return now }

	repo.EXPECT().DeleteExpiredActionTokens(gomock.Any(), now).Return(int64(2), nil)
	p.purge(context.Background())

	repo.EXPECT().DeleteExpiredActionTokens(gomock.Any(), now).Return(int64(0), errors.New("db down"))
	p.purge(context.Background())
}

func TestActionTokenPurger_RunsOnInterval(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockActionTokenRepository(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	called := make(chan struct{}, 1)
	repo.EXPECT().DeleteExpiredActionTokens(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, time.Time) (int64, error) {
			select {
			case called <- struct{}{}:
			default:
			}
			return 0, nil
		}).
		MinTimes(1)

	p := NewActionTokenPurger(repo, 5*time.Millisecond, logger.Nop())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("purge was not triggered")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}
