package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
)

// Storages aggregates the repositories handed to the service layer.
type Storages struct {
	Users        UserRepository
	Tasks        TaskRepository
	ActionTokens ActionTokenRepository
	Revocations  RevocationStore

	closers []io.Closer
}

// NewStorages selects the backends from cfg: PostgreSQL when a DSN is set
// (migrations are applied on start), in-memory otherwise; Redis for the
// revocation set when an address is set, in-memory otherwise.
func NewStorages(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*Storages, error) {
	storages := new(Storages)

	if cfg.Storage.DB.DSN == "" {
		log.Warn().Str("func", "NewStorages").Msg("no database DSN configured, using in-memory storage")

		memory := NewMemoryStorage()
		storages.Users = memory.Users
		storages.Tasks = memory.Tasks
		storages.ActionTokens = memory.ActionTokens
	} else {
		db, err := NewConnectPostgres(ctx, cfg.Storage.DB, log)
		if err != nil {
			return nil, err
		}
		storages.closers = append(storages.closers, db)

		if err = db.Migrate(); err != nil {
			log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
			_ = storages.Close()
			return nil, fmt.Errorf("error applying migrations: %w", err)
		}

		storages.Users = NewUserRepository(db, log)
		storages.Tasks = NewTaskRepository(db, log)
		storages.ActionTokens = NewActionTokenRepository(db, log)
	}

	if cfg.Cache.RedisAddr == "" {
		storages.Revocations = NewMemoryRevocationStore()
	} else {
		revocations, err := NewRedisRevocationStore(ctx, cfg.Cache, log)
		if err != nil {
			_ = storages.Close()
			return nil, err
		}
		storages.Revocations = revocations
		storages.closers = append(storages.closers, revocations)
	}

	return storages, nil
}

// Close releases database and cache connections.
func (s *Storages) Close() error {
	var errs error
	for _, closer := range s.closers {
		errs = errors.Join(errs, closer.Close())
	}
	return errs
}
