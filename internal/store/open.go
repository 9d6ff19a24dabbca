package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/erazemk/najdeno/internal/config"
	"github.com/erazemk/najdeno/internal/db"
)

// Open returns the backend cfg selects, with its schema in place.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		slog.Warn("using in-memory store, data is lost on restart")
		m, err := NewMemory(opts...)
		if err != nil {
			return nil, err
		}
		return m, nil

	case config.BackendSQLite:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(database, db.SQLite); err != nil {
			database.Close()
			return nil, fmt.Errorf("ensuring schema: %w", err)
		}
		slog.Info("database ready", "backend", cfg.Backend, "path", cfg.DBPath)
		return NewSQL(database, db.SQLite, opts...), nil

	case config.BackendPostgres:
		database, err := db.OpenPostgres(ctx, cfg.DatabaseURL, db.PoolConfig{
			MaxOpenConns: cfg.MaxOpenConns,
			MaxIdleConns: cfg.MaxIdleConns,
		})
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(database, db.Postgres); err != nil {
			database.Close()
			return nil, fmt.Errorf("ensuring schema: %w", err)
		}
		slog.Info("database ready", "backend", cfg.Backend)
		return NewSQL(database, db.Postgres, opts...), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
