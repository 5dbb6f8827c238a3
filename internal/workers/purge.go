// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/store"
)

// ActionTokenPurger periodically deletes expired action tokens. A consumed
// token is kept until it expires.
type ActionTokenPurger struct {
	repository store.ActionTokenRepository
	interval   time.Duration
	now        func() time.Time
	logger     *logger.Logger
}

// NewActionTokenPurger creates a purger running every interval.
func NewActionTokenPurger(repository store.ActionTokenRepository, interval time.Duration, log *logger.Logger) *ActionTokenPurger {
	return &ActionTokenPurger{
		repository: repository,
		interval:   interval,
		now:        time.Now,
		logger:     log,
	}
}

// Run purges once per interval until ctx is cancelled.
func (p *ActionTokenPurger) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.purge(ctx)
		}
	}
}

func (p *ActionTokenPurger) purge(ctx context.Context) {
	deleted, err := p.repository.DeleteExpiredActionTokens(ctx, p.now())
	if err != nil {
		p.logger.Err(err).Str("func", "ActionTokenPurger.purge").Msg("error purging action tokens")
		return
	}
	if deleted > 0 {
		p.logger.Info().Int64("deleted", deleted).Msg("purged action tokens")
	}
}
