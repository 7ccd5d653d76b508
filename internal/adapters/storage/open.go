package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/forgeplanner/core/internal/domain/entities"
	"github.com/forgeplanner/core/internal/infrastructure/config"
	"github.com/forgeplanner/core/internal/infrastructure/database"
	"github.com/forgeplanner/core/internal/ports"
)

// Backend is an opened store plus whatever must be closed with it.
type Backend struct {
	Store  ports.KVStore
	closer io.Closer
}

func (b *Backend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

// Open builds the store selected by cfg.Driver. SQL backends are migrated on open.
func Open(ctx context.Context, cfg config.StorageConfig) (*Backend, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return &Backend{Store: NewMemoryStore()}, nil
	case config.DriverFile:
		fs, err := NewFileStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: fs}, nil
	case config.DriverSQLite, config.DriverPostgres:
		db, err := database.OpenMigrated(cfg)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: NewSQLStore(db.DB), closer: db}, nil
	case config.DriverRedis:
		rs, err := NewRedisStore(ctx, cfg.Redis, cfg.KeyPrefix)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: rs, closer: rs}, nil
	default:
		return nil, fmt.Errorf("%w: %q", entities.ErrUnknownStorageDriver, cfg.Driver)
	}
}
