package postgres

import (
	sqlstorage "dbprobe/internal/storage/sql"
)

// Dialect implements PostgreSQL introspection, which is the base catalog layout
type Dialect struct {
	*sqlstorage.BaseDialect
}

// NewDialect creates a new PostgreSQL dialect
func NewDialect() *Dialect {
	return &Dialect{
		BaseDialect: &sqlstorage.BaseDialect{},
	}
}
