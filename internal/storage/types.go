package storage

import "context"

// Column describes one column of a table
type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// Inspector runs read-only introspection queries over one open connection.
type Inspector interface {
	ServerVersion(ctx context.Context) (string, error)
	CurrentDatabase(ctx context.Context) (string, error)
	ListDatabases(ctx context.Context) ([]string, error)
	// ListTables returns the tables of the current database ordered by name.
	ListTables(ctx context.Context) ([]string, error)
	ListColumns(ctx context.Context, table string) ([]Column, error)
	Close() error
}

// Opener establishes a connection described by cfg.
type Opener func(ctx context.Context, cfg Config) (Inspector, error)
