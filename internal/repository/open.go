package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/locus/internal/config"
)

// Supported record store engines.
const (
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// Open connects to the record store selected by cfg.Store and creates the schools
// table if needed. The returned function releases the underlying connections.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (Interface, func(), error) {
	var (
		store   Interface
		closeFn func()
	)

	switch cfg.Store {
	case EnginePostgres:
		pool, err := NewDatabase(
			ctx, cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		store, closeFn = NewRepository(pool, log), pool.Close
	case EngineSQLite:
		db, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		store, closeFn = NewSQLiteRepository(db, log), func() { _ = db.Close() }
	default:
		return nil, nil, fmt.Errorf("unsupported record store: %s", cfg.Store)
	}

	if err := store.Migrate(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}

	log.InfoContext(ctx, "Record store ready", "engine", cfg.Store)

	return store, closeFn, nil
}
