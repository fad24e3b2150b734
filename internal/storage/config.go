package storage

import (
	"fmt"
	"time"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config represents database connection configuration
type Config struct {
	Driver         string
	Host           string
	Port           int
	Database       string
	Username       string
	Password       string
	SSLMode        string
	ConnectTimeout time.Duration
}

// DefaultConfig returns the connection the probe targets when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Driver:   DriverPostgres,
		Host:     "am.lan",
		Port:     5432,
		Database: "postgres",
		Username: "appuser",
		Password: "P0stGress",
		SSLMode:  "disable",
	}
}

// WithDatabase returns a copy of the config scoped to another database.
func (c Config) WithDatabase(name string) Config {
	c.Database = name
	return c
}

// Engine returns the human readable name of the server behind the driver.
func (c Config) Engine() string {
	switch c.Driver {
	case DriverPostgres, DriverPgx:
		return "PostgreSQL"
	case DriverMySQL:
		return "MySQL"
	case DriverSQLite:
		return "SQLite"
	default:
		return c.Driver
	}
}

// Networked reports whether the driver talks to a server over the network.
func (c Config) Networked() bool {
	return c.Driver != DriverSQLite
}

// Validate checks the invariants required before connecting.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverPostgres, DriverPgx, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Driver)
	}
	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Networked() {
		if c.Host == "" {
			return fmt.Errorf("host is required")
		}
		if c.Port <= 0 || c.Port > 65535 {
			return fmt.Errorf("invalid port: %d", c.Port)
		}
	}
	if c.ConnectTimeout < 0 {
		return fmt.Errorf("invalid connect timeout: %s", c.ConnectTimeout)
	}
	return nil
}
