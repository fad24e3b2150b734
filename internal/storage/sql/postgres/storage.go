package postgres

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"dbprobe/internal/storage"
	sqlstorage "dbprobe/internal/storage/sql"
)

// Open connects to PostgreSQL through lib/pq (driver "postgres") or pgx
// (driver "pgx").
func Open(ctx context.Context, cfg storage.Config) (*sqlstorage.BaseInspector, error) {
	driverName := "postgres"
	if cfg.Driver == storage.DriverPgx {
		driverName = "pgx"
	}

	db, err := sqlstorage.Open(ctx, driverName, DSN(cfg), cfg.ConnectTimeout, classify)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s on %s:%d: %w", cfg.Database, cfg.Host, cfg.Port, err)
	}

	return sqlstorage.NewBaseInspector(db, NewDialect()), nil
}

// DefaultConfig returns default PostgreSQL configuration
func DefaultConfig() storage.Config {
	return storage.DefaultConfig()
}
