package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"dbprobe/internal/probe"
)

// resolveProbe handles the probe query. A failed run is still a report;
// only a missing report is a GraphQL error.
func (s *Schema) resolveProbe(p graphql.ResolveParams) (interface{}, error) {
	report, err := s.run(p.Context)
	if report == nil {
		s.logger.Error("Error running probe", "error", err)
		return nil, fmt.Errorf("probe produced no report: %w", err)
	}
	if err != nil {
		s.logger.Debug("probe failed", "run_id", report.ID, "kind", probe.KindOf(err), "error", err)
	}
	return report, nil
}

// resolveColumns lists column details in table order
func resolveColumns(p graphql.ResolveParams) (interface{}, error) {
	listing, ok := p.Source.(*probe.TableListing)
	if !ok || listing.Columns == nil {
		return nil, nil
	}

	result := make([]tableColumns, 0, len(listing.Tables))
	for _, table := range listing.Tables {
		result = append(result, tableColumns{Table: table, Columns: listing.Columns[table]})
	}
	return result, nil
}

// nilListing keeps a nil *TableListing from reaching the resolver as a
// non-nil interface.
func nilListing(l *probe.TableListing) interface{} {
	if l == nil {
		return nil
	}
	return l
}

func optional(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
