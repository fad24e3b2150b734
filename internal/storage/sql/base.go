package sql

import (
	"context"
	"database/sql"
	"fmt"

	"dbprobe/internal/storage"

	sq "github.com/Masterminds/squirrel"
)

// BaseInspector runs the dialect's introspection queries over one *sql.DB
type BaseInspector struct {
	db      *sql.DB
	dialect SQLDialect
	// Use squirrel's placeholder format based on dialect
	builder sq.StatementBuilderType
}

// NewBaseInspector creates a new BaseInspector
func NewBaseInspector(db *sql.DB, dialect SQLDialect) *BaseInspector {
	// Choose placeholder format based on dialect
	var builder sq.StatementBuilderType
	if dialect.PlaceholderFormat() == "?" {
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)
	} else {
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}

	return &BaseInspector{
		db:      db,
		dialect: dialect,
		builder: builder,
	}
}

// ServerVersion returns the server version string
func (s *BaseInspector) ServerVersion(ctx context.Context) (string, error) {
	version, err := s.queryString(ctx, s.dialect.ServerVersion(s.builder))
	if err != nil {
		return "", fmt.Errorf("querying server version: %w", err)
	}
	return version, nil
}

// CurrentDatabase returns the database the connection is bound to
func (s *BaseInspector) CurrentDatabase(ctx context.Context) (string, error) {
	name, err := s.queryString(ctx, s.dialect.CurrentDatabase(s.builder))
	if err != nil {
		return "", fmt.Errorf("querying current database: %w", err)
	}
	return name, nil
}

// ListDatabases returns every non-template database on the server
func (s *BaseInspector) ListDatabases(ctx context.Context) ([]string, error) {
	names, err := s.queryStrings(ctx, s.dialect.ListDatabases(s.builder))
	if err != nil {
		return nil, fmt.Errorf("listing databases: %w", err)
	}
	return names, nil
}

// ListTables returns the tables of the current database ordered by name
func (s *BaseInspector) ListTables(ctx context.Context) ([]string, error) {
	names, err := s.queryStrings(ctx, s.dialect.ListTables(s.builder))
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	return names, nil
}

// ListColumns returns the columns of table in ordinal order
func (s *BaseInspector) ListColumns(ctx context.Context, table string) ([]storage.Column, error) {
	rows, err := s.dialect.ListColumns(s.builder, table).RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing columns of %s: %w", table, err)
	}
	defer rows.Close()

	columns := []storage.Column{}
	for rows.Next() {
		var (
			col      storage.Column
			nullable string
		)
		if err := rows.Scan(&col.Name, &col.Type, &nullable); err != nil {
			return nil, fmt.Errorf("scanning column of %s: %w", table, err)
		}
		col.Nullable = nullable != "NO"
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing columns of %s: %w", table, err)
	}
	return columns, nil
}

// Close closes the underlying connection
func (s *BaseInspector) Close() error {
	return s.db.Close()
}

func (s *BaseInspector) queryString(ctx context.Context, query sq.SelectBuilder) (string, error) {
	var value sql.NullString
	if err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&value); err != nil {
		return "", err
	}
	return value.String, nil
}

func (s *BaseInspector) queryStrings(ctx context.Context, query sq.SelectBuilder) ([]string, error) {
	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		values = append(values, value)
	}
	return values, rows.Err()
}
