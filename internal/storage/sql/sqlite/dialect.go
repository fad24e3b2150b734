package sqlite

import (
	sq "github.com/Masterminds/squirrel"

	sqlstorage "dbprobe/internal/storage/sql"
)

// Dialect implements SQLite-specific introspection
type Dialect struct {
	*sqlstorage.BaseDialect
}

// NewDialect creates a new SQLite dialect
func NewDialect() *Dialect {
	return &Dialect{
		BaseDialect: &sqlstorage.BaseDialect{},
	}
}

// PlaceholderFormat returns "?" as SQLite uses ? for placeholders
func (d *Dialect) PlaceholderFormat() string {
	return "?"
}

func (d *Dialect) ServerVersion(b sq.StatementBuilderType) sq.SelectBuilder {
	return b.Select("sqlite_version()")
}

// CurrentDatabase returns the file backing the main schema
func (d *Dialect) CurrentDatabase(b sq.StatementBuilderType) sq.SelectBuilder {
	return b.Select("file").
		From("pragma_database_list").
		Where(sq.Eq{"name": "main"})
}

// ListDatabases lists the main, temp and attached schemas
func (d *Dialect) ListDatabases(b sq.StatementBuilderType) sq.SelectBuilder {
	return b.Select("name").
		From("pragma_database_list").
		OrderBy("seq")
}

func (d *Dialect) ListTables(b sq.StatementBuilderType) sq.SelectBuilder {
	return b.Select("name").
		From("sqlite_master").
		Where(sq.Eq{"type": "table"}).
		Where(sq.NotLike{"name": "sqlite_%"}).
		OrderBy("name")
}

func (d *Dialect) ListColumns(b sq.StatementBuilderType, table string) sq.SelectBuilder {
	return b.Select("name", "type", `CASE WHEN "notnull" = 0 THEN 'YES' ELSE 'NO' END`).
		From("pragma_table_info").
		Where(sq.Eq{"arg": table}).
		OrderBy("cid")
}
