package postgres

import "time"

// Config holds settings for the case record database.
type Config struct {
	// DSN is the connection string, for example
	// "postgres://cognicase:secret@db:5432/cognicase?sslmode=require".
	DSN string

	// MaxConns caps the pool size. Requests are short record
	// lookups, so a modest pool goes a long way.
	MaxConns int32

	// MinConns is how many idle connections the pool keeps warm.
	MinConns int32

	// MaxConnLifetime bounds how long a connection is reused before
	// the pool replaces it.
	MaxConnLifetime time.Duration

	// MigrateOnStart applies pending schema migrations when the
	// store is opened.
	MigrateOnStart bool
}

func (c *Config) defaults() {
	if c.MaxConns == 0 {
		c.MaxConns = 25
	}
	if c.MinConns == 0 {
		c.MinConns = 5
	}
	if c.MaxConnLifetime == 0 {
		c.MaxConnLifetime = 5 * time.Minute
	}
}
