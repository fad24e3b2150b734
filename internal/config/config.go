package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"dbprobe/internal/probe"
	"dbprobe/internal/storage"
	"dbprobe/internal/storage/factory"
)

// Config holds all application configuration
type Config struct {
	Database    DatabaseConfig `yaml:"database"`
	Secondary   string         `yaml:"secondary"`
	Columns     bool           `yaml:"columns"`
	LogLevel    string         `yaml:"log_level"`
	LogFormat   string         `yaml:"log_format"`
	MetricsFile string         `yaml:"metrics_file"`
	Strict      bool           `yaml:"strict"`
	Serve       ServeConfig    `yaml:"serve"`
}

// DatabaseConfig describes the primary connection. When URI is set it
// replaces the individual fields.
type DatabaseConfig struct {
	URI            string        `yaml:"uri"`
	Driver         string        `yaml:"driver"`
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	Name           string        `yaml:"name"`
	SSLMode        string        `yaml:"sslmode"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// ServeConfig configures the HTTP health endpoint.
type ServeConfig struct {
	Addr       string   `yaml:"addr"`
	TSAuthKey  string   `yaml:"ts_authkey"`
	TSHostname string   `yaml:"ts_hostname"`
	AllowCIDRs []string `yaml:"allow_cidrs"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	conn := storage.DefaultConfig()
	return &Config{
		Database: DatabaseConfig{
			Driver:   conn.Driver,
			Host:     conn.Host,
			Port:     conn.Port,
			User:     conn.Username,
			Password: conn.Password,
			Name:     conn.Database,
			SSLMode:  conn.SSLMode,
		},
		Secondary: probe.DefaultSecondary,
		LogLevel:  "info",
		LogFormat: "text",
		Serve: ServeConfig{
			Addr:       ":8080",
			TSHostname: "dbprobe",
		},
	}
}

// LoadFromFile loads configuration from a YAML file. Fields missing from the
// file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings that are not part of the connection itself.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s", c.LogFormat)
	}
	return nil
}

// Connection resolves the primary connection config.
func (c *Config) Connection() (storage.Config, error) {
	d := c.Database
	if d.URI == "" {
		conn := storage.Config{
			Driver:         d.Driver,
			Host:           d.Host,
			Port:           d.Port,
			Database:       d.Name,
			Username:       d.User,
			Password:       d.Password,
			SSLMode:        d.SSLMode,
			ConnectTimeout: d.ConnectTimeout,
		}
		return conn, conn.Validate()
	}

	conn, err := factory.ParseURI(d.URI)
	if err != nil {
		return storage.Config{}, err
	}
	if conn.SSLMode == "" && conn.Driver != storage.DriverSQLite {
		conn.SSLMode = d.SSLMode
	}
	conn.ConnectTimeout = d.ConnectTimeout
	return conn, conn.Validate()
}
