// Package mssql provides the Transact-SQL implementation of database.Conn,
// backed by database/sql and the go-mssqldb driver.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/dbcove/dbcove/internal/database"
	"github.com/dbcove/dbcove/internal/errs"

	_ "github.com/microsoft/go-mssqldb" // register "sqlserver" driver
)

const (
	livenessQuery = `SELECT 1`
	versionQuery  = `SELECT @@VERSION`
	defaultPort   = 1433
)

func init() {
	database.Register(database.EngineMSSQL, open)
}

// Driver is a SQL Server implementation of database.Conn.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	db *sql.DB
}

// open dials SQL Server, tunes the pool, and probes liveness before
// returning. On probe failure the pool is closed and an error returned.
func open(ctx context.Context, cfg *database.ConnectConfig) (database.Conn, error) {
	db, err := sql.Open("sqlserver", buildDSN(cfg))
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidConfig, "invalid mssql DSN", err)
	}

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)

	d := &Driver{db: db}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := d.Ping(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return d, nil
}

// buildDSN constructs the sqlserver:// connection URL.
func buildDSN(cfg *database.ConnectConfig) string {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	q := url.Values{}
	q.Set("database", cfg.Database)
	for k, v := range cfg.Options {
		q.Set(k, v)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		Host:     fmt.Sprintf("%s:%d", cfg.Host, port),
		RawQuery: q.Encode(),
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	return u.String()
}

// --- database.Conn implementation ---

func (d *Driver) Ping(ctx context.Context) error {
	var one int
	if err := d.db.QueryRowContext(ctx, livenessQuery).Scan(&one); err != nil {
		return mapError(err, "liveness probe failed")
	}
	return nil
}

func (d *Driver) Close() error {
	return d.db.Close()
}

func (d *Driver) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "query failed")
	}
	return database.WrapSQLRows(rows), nil
}

func (d *Driver) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := d.db.ExecContext(ctx, query, args...); err != nil {
		return mapError(err, "statement failed")
	}
	return nil
}

func (d *Driver) ServerVersion(ctx context.Context) (string, error) {
	var version string
	if err := d.db.QueryRowContext(ctx, versionQuery).Scan(&version); err != nil {
		return "", mapError(err, "failed to read server version")
	}
	return version, nil
}
