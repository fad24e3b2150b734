package graphql

import (
	"log/slog"
	"net/http"

	"github.com/graphql-go/handler"
)

// NewHandler creates a new GraphQL HTTP handler
func NewHandler(run RunFunc, logger *slog.Logger) (http.Handler, error) {
	schema, err := NewSchema(run, logger)
	if err != nil {
		return nil, err
	}

	h := handler.New(&handler.Config{
		Schema:   &schema.schema,
		Pretty:   true,
		GraphiQL: true,
	})

	return h, nil
}
