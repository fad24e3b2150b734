package mysql

import (
	"context"
	"fmt"

	"dbprobe/internal/storage"
	sqlstorage "dbprobe/internal/storage/sql"
)

// Open connects to MySQL and returns an inspector over the connection
func Open(ctx context.Context, cfg storage.Config) (*sqlstorage.BaseInspector, error) {
	db, err := sqlstorage.Open(ctx, "mysql", DSN(cfg), cfg.ConnectTimeout, classify)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s on %s:%d: %w", cfg.Database, cfg.Host, cfg.Port, err)
	}

	return sqlstorage.NewBaseInspector(db, NewDialect()), nil
}
