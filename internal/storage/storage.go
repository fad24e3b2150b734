// Package storage defines the connection record and the read-only
// introspection surface the probe runs against a database server.
// Driver-specific implementations live under storage/sql, the shared
// types are defined in types.go.
package storage
