package sql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dbprobe/internal/storage"
)

// Classifier maps a driver error raised while connecting to a reason
type Classifier func(err error) storage.ConnectReason

// Open opens a database handle and verifies it with a ping. Failures are
// returned as *storage.ConnectError.
func Open(ctx context.Context, driverName, dsn string, timeout time.Duration, classify Classifier) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, storage.NewConnectError(storage.ReasonUnknown, fmt.Errorf("opening database: %w", err))
	}

	// A probe run holds exactly one session so every query sees the same
	// current database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		reason := storage.ReasonUnknown
		if classify != nil {
			reason = classify(err)
		}
		return nil, storage.NewConnectError(reason, fmt.Errorf("pinging database: %w", err))
	}

	return db, nil
}
