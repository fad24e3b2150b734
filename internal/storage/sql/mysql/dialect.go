package mysql

import (
	sq "github.com/Masterminds/squirrel"

	sqlstorage "dbprobe/internal/storage/sql"
)

// systemSchemas are the databases MySQL creates for itself
var systemSchemas = []string{"information_schema", "mysql", "performance_schema", "sys"}

// Dialect implements MySQL-specific introspection
type Dialect struct {
	*sqlstorage.BaseDialect
}

// NewDialect creates a new MySQL dialect
func NewDialect() *Dialect {
	return &Dialect{
		BaseDialect: &sqlstorage.BaseDialect{},
	}
}

// PlaceholderFormat returns "?" as MySQL uses ? for placeholders
func (d *Dialect) PlaceholderFormat() string {
	return "?"
}

func (d *Dialect) ServerVersion(b sq.StatementBuilderType) sq.SelectBuilder {
	return b.Select("VERSION()")
}

func (d *Dialect) CurrentDatabase(b sq.StatementBuilderType) sq.SelectBuilder {
	return b.Select("DATABASE()")
}

// ListDatabases skips the system schemas, MySQL's closest analog to templates
func (d *Dialect) ListDatabases(b sq.StatementBuilderType) sq.SelectBuilder {
	return b.Select("schema_name").
		From("information_schema.schemata").
		Where(sq.NotEq{"schema_name": systemSchemas}).
		OrderBy("schema_name")
}

// ListTables lists the connected schema; MySQL has no public schema
func (d *Dialect) ListTables(b sq.StatementBuilderType) sq.SelectBuilder {
	return b.Select("table_name").
		From("information_schema.tables").
		Where("table_schema = DATABASE()").
		OrderBy("table_name")
}

func (d *Dialect) ListColumns(b sq.StatementBuilderType, table string) sq.SelectBuilder {
	return b.Select("column_name", "column_type", "is_nullable").
		From("information_schema.columns").
		Where("table_schema = DATABASE()").
		Where(sq.Eq{"table_name": table}).
		OrderBy("ordinal_position")
}
