package sqlite

import (
	"errors"

	"github.com/mattn/go-sqlite3"

	"dbprobe/internal/storage"
)

// classify maps go-sqlite3 open errors to a reason
func classify(err error) storage.ConnectReason {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code {
		case sqlite3.ErrCantOpen, sqlite3.ErrNotADB:
			return storage.ReasonDatabase
		case sqlite3.ErrPerm, sqlite3.ErrAuth, sqlite3.ErrReadonly:
			return storage.ReasonAuth
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return storage.ReasonUnavailable
		}
	}
	return storage.ReasonUnknown
}
