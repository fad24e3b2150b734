package mysql

import (
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"dbprobe/internal/storage"
)

// DSN builds a go-sql-driver DSN in format user:pass@tcp(host:port)/dbname
func DSN(cfg storage.Config) string {
	c := mysql.NewConfig()
	c.User = cfg.Username
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	c.DBName = cfg.Database
	c.ParseTime = true
	if cfg.ConnectTimeout > 0 {
		c.Timeout = cfg.ConnectTimeout
	}
	switch cfg.SSLMode {
	case "require":
		c.TLSConfig = "skip-verify"
	case "verify-full", "verify-ca":
		c.TLSConfig = "true"
	case "prefer":
		c.TLSConfig = "preferred"
	}
	return c.FormatDSN()
}

// DefaultConfig returns default MySQL configuration
func DefaultConfig() storage.Config {
	cfg := storage.DefaultConfig()
	cfg.Driver = storage.DriverMySQL
	cfg.Port = 3306
	cfg.Database = "mysql"
	return cfg
}
