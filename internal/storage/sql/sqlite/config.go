package sqlite

import (
	"net/url"
	"strings"

	"dbprobe/internal/storage"
)

// DSN opens the database file read-write without creating it, so probing a
// missing file fails instead of leaving an empty database behind.
func DSN(cfg storage.Config) string {
	path := cfg.Database
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=rw"
}
