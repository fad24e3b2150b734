package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"dbprobe/internal/storage"
)

// classify maps lib/pq and pgx connection errors to a reason
func classify(err error) storage.ConnectReason {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return reasonForSQLState(string(pqErr.Code))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return reasonForSQLState(pgErr.Code)
	}

	if reason, ok := storage.ClassifyNetError(err); ok {
		return reason
	}
	return storage.ReasonUnknown
}

func reasonForSQLState(code string) storage.ConnectReason {
	switch {
	case code == "3D000": // invalid_catalog_name
		return storage.ReasonDatabase
	case strings.HasPrefix(code, "28"): // invalid_authorization_specification
		return storage.ReasonAuth
	case strings.HasPrefix(code, "08"), code == "57P03", code == "53300":
		return storage.ReasonUnavailable
	default:
		return storage.ReasonUnknown
	}
}
