package sql

import (
	sq "github.com/Masterminds/squirrel"
)

// SQLDialect defines database-specific introspection queries
type SQLDialect interface {
	// PlaceholderFormat returns the format for SQL placeholders ("?" or "$")
	PlaceholderFormat() string

	// ServerVersion selects a single row holding the server version string
	ServerVersion(b sq.StatementBuilderType) sq.SelectBuilder

	// CurrentDatabase selects the name of the database the session is bound to
	CurrentDatabase(b sq.StatementBuilderType) sq.SelectBuilder

	// ListDatabases selects one database name per row, excluding templates
	ListDatabases(b sq.StatementBuilderType) sq.SelectBuilder

	// ListTables selects the user tables of the current database ordered by name
	ListTables(b sq.StatementBuilderType) sq.SelectBuilder

	// ListColumns selects name, type and a YES/NO nullability flag per column
	// of table, in ordinal order
	ListColumns(b sq.StatementBuilderType, table string) sq.SelectBuilder
}

// BaseDialect provides the PostgreSQL catalog queries; other dialects embed
// it and override what differs.
type BaseDialect struct{}

// PlaceholderFormat returns "$" as the default placeholder format
func (d *BaseDialect) PlaceholderFormat() string {
	return "$"
}

func (d *BaseDialect) ServerVersion(b sq.StatementBuilderType) sq.SelectBuilder {
	return b.Select("version()")
}

func (d *BaseDialect) CurrentDatabase(b sq.StatementBuilderType) sq.SelectBuilder {
	return b.Select("current_database()")
}

func (d *BaseDialect) ListDatabases(b sq.StatementBuilderType) sq.SelectBuilder {
	return b.Select("datname").
		From("pg_database").
		Where(sq.Eq{"datistemplate": false})
}

func (d *BaseDialect) ListTables(b sq.StatementBuilderType) sq.SelectBuilder {
	return b.Select("table_name").
		From("information_schema.tables").
		Where(sq.Eq{"table_schema": "public"}).
		OrderBy("table_name")
}

func (d *BaseDialect) ListColumns(b sq.StatementBuilderType, table string) sq.SelectBuilder {
	return b.Select("column_name", "data_type", "is_nullable").
		From("information_schema.columns").
		Where(sq.Eq{"table_schema": "public", "table_name": table}).
		OrderBy("ordinal_position")
}
