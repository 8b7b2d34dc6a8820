// Package storage picks the repository.Store backend named in the config.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/foodops/internal/config"
	"github.com/mamadbah2/foodops/internal/repository"
	"github.com/mamadbah2/foodops/internal/repository/memory"
	"github.com/mamadbah2/foodops/internal/repository/sqlstore"
)

// Open returns the configured store. The caller closes it.
func Open(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (repository.Store, error) {
	switch cfg.Driver {
	case "memory":
		return memory.New(), nil
	case "sqlite":
		return openSQL(ctx, sqlstore.SQLite, cfg.DSN, logger)
	case "postgres":
		return openSQL(ctx, sqlstore.Postgres, cfg.DSN, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func openSQL(ctx context.Context, dialect sqlstore.Dialect, dsn string, logger *zap.Logger) (repository.Store, error) {
	store, err := sqlstore.Open(ctx, dialect, dsn, logger)
	if err != nil {
		return nil, err
	}
	return store, nil
}
