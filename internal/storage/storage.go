// Package storage opens the repository backend selected by STORE_DRIVER.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"swarmfeedback/internal/config"
	"swarmfeedback/internal/db"
	"swarmfeedback/internal/repository"
	"swarmfeedback/internal/repository/mongostore"
)

// Open connects to the configured backend. Relational backends are migrated first.
func Open(cfg *config.Config) (*repository.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		store, err := mongostore.NewStore(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo init: %w", err)
		}
		slog.Info("store ready", "driver", cfg.StoreDriver, "database", cfg.MongoDB)
		return store.Repositories(), nil

	case config.StoreMySQL, config.StorePostgres, config.StoreSQLite:
		dsn := cfg.MySQLDSN
		switch cfg.StoreDriver {
		case config.StorePostgres:
			dsn = cfg.PostgresDSN
		case config.StoreSQLite:
			dsn = cfg.SQLiteDSN
		}
		gormDB, err := db.Open(cfg.StoreDriver, dsn)
		if err != nil {
			return nil, fmt.Errorf("database init: %w", err)
		}
		if err := db.Migrate(gormDB); err != nil {
			_ = db.Close(gormDB)
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
		slog.Info("store ready", "driver", cfg.StoreDriver)
		return repository.NewGormStore(gormDB), nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

// Close releases the store, logging instead of failing.
func Close(ctx context.Context, store *repository.Store) {
	if store == nil || store.Close == nil {
		return
	}
	if err := store.Close(ctx); err != nil {
		slog.Error("store close failed", "error", err)
	}
}
