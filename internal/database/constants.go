package database

import "time"

// Connection pool defaults
const (
	DefaultMinConnections = 2
	DefaultMaxConnections = 10
	DefaultMaxIdleTime    = 5 * time.Minute
	DefaultMaxLifetime    = 30 * time.Minute
)

// Postgres error codes
const (
	PgErrUniqueViolation = "23505"
)
