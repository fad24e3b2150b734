package postgres

import (
	"fmt"
	"strings"
	"unicode"

	"dbprobe/internal/storage"
)

// DSN builds a keyword/value connection string understood by both lib/pq and pgx.
func DSN(cfg storage.Config) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	parts := []string{
		keyword("host", cfg.Host),
		fmt.Sprintf("port=%d", cfg.Port),
		keyword("user", cfg.Username),
		keyword("password", cfg.Password),
		keyword("dbname", cfg.Database),
		keyword("sslmode", sslmode),
	}
	if cfg.ConnectTimeout > 0 {
		// connect_timeout is whole seconds; round up so short timeouts still apply
		seconds := int((cfg.ConnectTimeout + 999_999_999) / 1_000_000_000)
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", seconds))
	}
	return strings.Join(parts, " ")
}

// keyword quotes value when it is empty or holds whitespace, quotes or backslashes.
func keyword(key, value string) string {
	if value != "" && !strings.ContainsAny(value, `'\`) && strings.IndexFunc(value, unicode.IsSpace) < 0 {
		return key + "=" + value
	}
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value)
	return key + "='" + escaped + "'"
}
