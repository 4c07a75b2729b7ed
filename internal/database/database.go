// Package database defines the dialect-neutral contract every engine driver
// implements. Layers above this package (session, query, catalog, ddl) talk
// only to these interfaces — they never import the mssql or firebird
// packages directly.
package database

import (
	"context"
	"sort"
	"sync"

	"github.com/dbcove/dbcove/internal/errs"
)

// Engine identifies a supported database dialect.
type Engine string

const (
	EngineMSSQL    Engine = "mssql"
	EngineFirebird Engine = "firebird"
)

// Conn is a live connection pool to one database.
// Implementations must be safe for concurrent use by multiple goroutines.
type Conn interface {
	// Ping verifies the database is reachable with the dialect's
	// liveness query.
	Ping(ctx context.Context) error

	// Close drains the connection pool. Idempotent.
	Close() error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)

	// Exec executes a statement that returns no rows (DDL, DML).
	Exec(ctx context.Context, sql string, args ...any) error

	// ServerVersion reports the engine version string discovered at
	// connect time, e.g. "3.0.10" or "Microsoft SQL Server 2022 …".
	ServerVersion(ctx context.Context) (string, error)
}

// Rows is an abstraction over a database result set.
// Callers must always call Close() when done, even on error.
type Rows interface {
	// Next advances to the next row.
	// Returns false when no more rows exist or on error.
	Next() bool

	// Scan copies the current row's columns into the provided destinations.
	Scan(dest ...any) error

	// Columns returns the column names of the result set.
	Columns() ([]string, error)

	// ColumnTypes returns the declared database type name per column.
	// Entries may be empty when the driver does not report them.
	ColumnTypes() ([]string, error)

	// Close releases resources held by the result set.
	Close()

	// Err returns any error encountered during iteration.
	Err() error
}

// OpenFunc opens a pool for one engine dialect. Implementations must probe
// liveness before returning and close the pool on probe failure.
type OpenFunc func(ctx context.Context, cfg *ConnectConfig) (Conn, error)

var (
	driversMu sync.RWMutex
	drivers   = map[Engine]OpenFunc{}
)

// Register makes an engine dialect available to Open. Driver packages call
// it from init(), mirroring database/sql's registration idiom.
func Register(engine Engine, open OpenFunc) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[engine] = open
}

// Open dials the engine named in cfg and returns a validated pool.
func Open(ctx context.Context, cfg *ConnectConfig) (Conn, error) {
	driversMu.RLock()
	open, ok := drivers[cfg.Engine]
	driversMu.RUnlock()
	if !ok {
		return nil, errs.Newf(errs.ErrKindInvalidConfig, "unknown engine %q", cfg.Engine)
	}
	return open(ctx, cfg)
}

// Engines returns the registered engine names, sorted.
func Engines() []Engine {
	driversMu.RLock()
	defer driversMu.RUnlock()
	list := make([]Engine, 0, len(drivers))
	for e := range drivers {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}
