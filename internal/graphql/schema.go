package graphql

import (
	"context"
	"log/slog"

	"github.com/graphql-go/graphql"

	"dbprobe/internal/probe"
	"dbprobe/internal/storage"
)

// RunFunc performs one probe run
type RunFunc func(ctx context.Context) (*probe.Report, error)

// Schema defines the GraphQL schema and resolvers
type Schema struct {
	schema graphql.Schema
	run    RunFunc
	logger *slog.Logger
}

// tableColumns pairs a table with its columns for the columns field
type tableColumns struct {
	Table   string
	Columns []storage.Column
}

// NewSchema creates a new GraphQL schema backed by run
func NewSchema(run RunFunc, logger *slog.Logger) (*Schema, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Schema{
		run:    run,
		logger: logger,
	}

	columnType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Column",
		Fields: graphql.Fields{
			"name":     columnField(graphql.String, func(c storage.Column) interface{} { return c.Name }),
			"type":     columnField(graphql.String, func(c storage.Column) interface{} { return c.Type }),
			"nullable": columnField(graphql.Boolean, func(c storage.Column) interface{} { return c.Nullable }),
		},
	})

	tableColumnsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TableColumns",
		Fields: graphql.Fields{
			"table": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if tc, ok := p.Source.(tableColumns); ok {
						return tc.Table, nil
					}
					return nil, nil
				},
			},
			"columns": &graphql.Field{
				Type: graphql.NewList(columnType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if tc, ok := p.Source.(tableColumns); ok {
						return tc.Columns, nil
					}
					return nil, nil
				},
			},
		},
	})

	listingType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TableListing",
		Fields: graphql.Fields{
			"database": listingField(graphql.String, func(l *probe.TableListing) interface{} { return l.Database }),
			"tables":   listingField(graphql.NewList(graphql.String), func(l *probe.TableListing) interface{} { return l.Tables }),
			"columns": &graphql.Field{
				Type:    graphql.NewList(tableColumnsType),
				Resolve: resolveColumns,
			},
		},
	})

	reportType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Report",
		Fields: graphql.Fields{
			"id":              reportField(graphql.String, func(r *probe.Report) interface{} { return r.ID }),
			"startedAt":       reportField(graphql.DateTime, func(r *probe.Report) interface{} { return r.StartedAt }),
			"duration":        reportField(graphql.String, func(r *probe.Report) interface{} { return r.Duration }),
			"engine":          reportField(graphql.String, func(r *probe.Report) interface{} { return r.Engine }),
			"host":            reportField(graphql.String, func(r *probe.Report) interface{} { return r.Host }),
			"user":            reportField(graphql.String, func(r *probe.Report) interface{} { return r.User }),
			"port":            reportField(graphql.Int, func(r *probe.Report) interface{} { return r.Port }),
			"database":        reportField(graphql.String, func(r *probe.Report) interface{} { return r.Database }),
			"stage":           reportField(graphql.String, func(r *probe.Report) interface{} { return r.Stage.String() }),
			"version":         reportField(graphql.String, func(r *probe.Report) interface{} { return r.Version }),
			"currentDatabase": reportField(graphql.String, func(r *probe.Report) interface{} { return r.CurrentDatabase }),
			"databases":       reportField(graphql.NewList(graphql.String), func(r *probe.Report) interface{} { return r.Databases }),
			"primary":         reportField(listingType, func(r *probe.Report) interface{} { return nilListing(r.Primary) }),
			"secondary":       reportField(listingType, func(r *probe.Report) interface{} { return nilListing(r.Secondary) }),
			"succeeded":       reportField(graphql.Boolean, func(r *probe.Report) interface{} { return r.Succeeded() }),
			"error":           reportField(graphql.String, func(r *probe.Report) interface{} { return optional(r.Error) }),
			"kind":            reportField(graphql.String, func(r *probe.Report) interface{} { return optional(r.Kind) }),
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"probe": &graphql.Field{
				Type:        reportType,
				Description: "Run a connectivity check and return its report",
				Resolve:     s.resolveProbe,
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
	if err != nil {
		return nil, err
	}

	s.schema = schema
	return s, nil
}

func reportField(t graphql.Output, get func(*probe.Report) interface{}) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			if r, ok := p.Source.(*probe.Report); ok {
				return get(r), nil
			}
			return nil, nil
		},
	}
}

func listingField(t graphql.Output, get func(*probe.TableListing) interface{}) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			if l, ok := p.Source.(*probe.TableListing); ok {
				return get(l), nil
			}
			return nil, nil
		},
	}
}

func columnField(t graphql.Output, get func(storage.Column) interface{}) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			if c, ok := p.Source.(storage.Column); ok {
				return get(c), nil
			}
			return nil, nil
		},
	}
}
