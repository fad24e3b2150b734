package mysql

import (
	"errors"

	"github.com/go-sql-driver/mysql"

	"dbprobe/internal/storage"
)

// classify maps go-sql-driver errors raised while connecting to a reason
func classify(err error) storage.ConnectReason {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1044, 1045, 1698: // access denied
			return storage.ReasonAuth
		case 1049: // unknown database
			return storage.ReasonDatabase
		case 1040, 1053, 1129: // too many connections, shutdown, host blocked
			return storage.ReasonUnavailable
		}
		return storage.ReasonUnknown
	}

	if reason, ok := storage.ClassifyNetError(err); ok {
		return reason
	}
	return storage.ReasonUnknown
}
