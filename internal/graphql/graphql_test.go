package graphql

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbprobe/internal/probe"
	"dbprobe/internal/storage"
	"dbprobe/internal/storage/factory"
	"dbprobe/internal/testutil"
)

func execute(t *testing.T, s *Schema, query string) *graphql.Result {
	t.Helper()
	return graphql.Do(graphql.Params{
		Schema:        s.schema,
		RequestString: query,
		Context:       context.Background(),
	})
}

func TestGraphQLQueries(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testutil.NewSQLiteDB(t, "users", "categories")

	prober := probe.New(probe.Options{
		Config:  cfg,
		Columns: true,
		Open:    factory.Open,
		Logger:  logger,
	})

	schema, err := NewSchema(prober.Run, logger)
	require.NoError(t, err)

	testCases := []struct {
		name     string
		query    string
		validate func(t *testing.T, result *graphql.Result)
	}{
		{
			name: "Query Report",
			query: `
				query {
					probe {
						id
						engine
						stage
						version
						currentDatabase
						databases
						succeeded
						error
						kind
					}
				}
			`,
			validate: func(t *testing.T, result *graphql.Result) {
				assert.Nil(t, result.Errors, "GraphQL query returned errors")

				data := result.Data.(map[string]interface{})
				report := data["probe"].(map[string]interface{})

				assert.NotEmpty(t, report["id"])
				assert.Equal(t, "SQLite", report["engine"])
				assert.Equal(t, "closed", report["stage"])
				assert.NotEmpty(t, report["version"])
				assert.Contains(t, report["currentDatabase"], "probe.db")
				assert.Equal(t, []interface{}{"main"}, report["databases"])
				assert.Equal(t, true, report["succeeded"])
				assert.Nil(t, report["error"])
				assert.Nil(t, report["kind"])
			},
		},
		{
			name: "Query Tables And Columns",
			query: `
				query {
					probe {
						primary {
							database
							tables
							columns {
								table
								columns { name type nullable }
							}
						}
						secondary { database }
					}
				}
			`,
			validate: func(t *testing.T, result *graphql.Result) {
				assert.Nil(t, result.Errors, "GraphQL query returned errors")

				report := result.Data.(map[string]interface{})["probe"].(map[string]interface{})
				assert.Nil(t, report["secondary"])

				primary := report["primary"].(map[string]interface{})
				assert.Equal(t, []interface{}{"categories", "users"}, primary["tables"])

				columns := primary["columns"].([]interface{})
				require.Len(t, columns, 2)

				first := columns[0].(map[string]interface{})
				assert.Equal(t, "categories", first["table"])
				cols := first["columns"].([]interface{})
				require.Len(t, cols, 3)
				assert.Equal(t, map[string]interface{}{"name": "name", "type": "TEXT", "nullable": false}, cols[1])
				assert.Equal(t, map[string]interface{}{"name": "note", "type": "TEXT", "nullable": true}, cols[2])
			},
		},
		{
			name:  "Invalid Field",
			query: `query { probe { password } }`,
			validate: func(t *testing.T, result *graphql.Result) {
				assert.NotEmpty(t, result.Errors)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.validate(t, execute(t, schema, tc.query))
		})
	}
}

func TestGraphQLFailedRun(t *testing.T) {
	report := probe.NewReport(storage.DefaultConfig())
	report.Error = "dial tcp: lookup am.lan: no such host"
	report.Kind = probe.KindOperational.String()

	run := func(ctx context.Context) (*probe.Report, error) {
		return report, errors.New(report.Error)
	}

	schema, err := NewSchema(run, nil)
	require.NoError(t, err)

	result := execute(t, schema, `{ probe { host port succeeded error kind primary { tables } } }`)
	assert.Nil(t, result.Errors, "a failed run is data, not a GraphQL error")

	data := result.Data.(map[string]interface{})["probe"].(map[string]interface{})
	assert.Equal(t, "am.lan", data["host"])
	assert.Equal(t, 5432, data["port"])
	assert.Equal(t, false, data["succeeded"])
	assert.Equal(t, "operational", data["kind"])
	assert.Equal(t, report.Error, data["error"])
	assert.Nil(t, data["primary"])
}

func TestGraphQLMissingReport(t *testing.T) {
	run := func(ctx context.Context) (*probe.Report, error) {
		return nil, errors.New("no opener")
	}

	schema, err := NewSchema(run, nil)
	require.NoError(t, err)

	result := execute(t, schema, `{ probe { id } }`)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Message, "no opener")
}
