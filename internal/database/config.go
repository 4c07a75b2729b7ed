package database

import (
	"time"

	"github.com/dbcove/dbcove/internal/errs"
)

// ConnectConfig holds everything a driver needs to open and pool a
// connection to one server. Passwords arrive here already decrypted;
// this struct never touches durable storage.
type ConnectConfig struct {
	Engine   Engine
	Host     string
	Port     int
	Database string
	User     string
	Password string

	// Options carries engine-specific connection string extras,
	// e.g. "encrypt" for mssql or "charset" for firebird.
	Options map[string]string

	// Pool tuning
	MaxConns        int           // maximum open connections in the pool
	MaxIdleConns    int           // idle connections kept alive
	MaxConnLifetime time.Duration // maximum time a connection may be reused

	// ConnectTimeout bounds the initial dial plus liveness probe.
	ConnectTimeout time.Duration
}

const (
	defaultMaxConns       = 10
	defaultMaxIdleConns   = 2
	defaultConnLifetime   = 30 * time.Minute
	defaultConnectTimeout = 10 * time.Second
)

// Normalize fills zero-valued pool settings with defaults and validates
// required fields. Returns ErrKindInvalidConfig when host, database, or
// engine is missing.
func (c *ConnectConfig) Normalize() error {
	if c.Engine == "" {
		return errs.New(errs.ErrKindInvalidConfig, "engine is required")
	}
	if c.Host == "" {
		return errs.New(errs.ErrKindInvalidConfig, "host is required")
	}
	if c.Database == "" {
		return errs.New(errs.ErrKindInvalidConfig, "database is required")
	}
	if c.MaxConns == 0 {
		c.MaxConns = defaultMaxConns
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = defaultMaxIdleConns
	}
	if c.MaxConnLifetime == 0 {
		c.MaxConnLifetime = defaultConnLifetime
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = defaultConnectTimeout
	}
	return nil
}
