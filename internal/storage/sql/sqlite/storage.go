package sqlite

import (
	"context"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"dbprobe/internal/storage"
	sqlstorage "dbprobe/internal/storage/sql"
)

// Open opens the SQLite file named by cfg.Database
func Open(ctx context.Context, cfg storage.Config) (*sqlstorage.BaseInspector, error) {
	db, err := sqlstorage.Open(ctx, "sqlite3", DSN(cfg), cfg.ConnectTimeout, classify)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", cfg.Database, err)
	}

	return sqlstorage.NewBaseInspector(db, NewDialect()), nil
}
