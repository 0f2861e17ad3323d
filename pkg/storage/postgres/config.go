package postgres

import "time"

// Config holds pool and migration settings.
type Config struct {
	// DSN is a libpq-style connection string or postgres:// URL.
	DSN string

	MaxConns        int32         // default: 25
	MinConns        int32         // default: 2
	MaxConnLifetime time.Duration // default: 5m

	// MigrateOnStart applies embedded schema migrations in New.
	MigrateOnStart bool
}

func (c *Config) applyDefaults() {
	if c.MaxConns == 0 {
		c.MaxConns = 25
	}
	if c.MinConns == 0 {
		c.MinConns = 2
	}
	if c.MaxConnLifetime == 0 {
		c.MaxConnLifetime = 5 * time.Minute
	}
}
