// Package firebird provides the Firebird implementation of database.Conn,
// backed by database/sql and the firebirdsql driver.
package firebird

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/dbcove/dbcove/internal/database"
	"github.com/dbcove/dbcove/internal/errs"

	_ "github.com/nakagami/firebirdsql" // register "firebirdsql" driver
)

const (
	livenessQuery = `SELECT 1 FROM RDB$DATABASE`
	versionQuery  = `SELECT RDB$GET_CONTEXT('SYSTEM', 'ENGINE_VERSION') FROM RDB$DATABASE`
	defaultPort   = 3050
)

func init() {
	database.Register(database.EngineFirebird, open)
}

// Driver is a Firebird implementation of database.Conn.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	db *sql.DB
}

func open(ctx context.Context, cfg *database.ConnectConfig) (database.Conn, error) {
	db, err := sql.Open("firebirdsql", buildDSN(cfg))
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidConfig, "invalid firebird DSN", err)
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

// buildDSN constructs the firebirdsql connection string:
// user:password@host:port/database_path_or_alias?option=value
func buildDSN(cfg *database.ConnectConfig) string {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	var sb strings.Builder
	if cfg.User != "" {
		sb.WriteString(url.QueryEscape(cfg.User))
		sb.WriteString(":")
		sb.WriteString(url.QueryEscape(cfg.Password))
		sb.WriteString("@")
	}
	fmt.Fprintf(&sb, "%s:%d/%s", cfg.Host, port, cfg.Database)

	if len(cfg.Options) > 0 {
		q := url.Values{}
		for k, v := range cfg.Options {
			q.Set(k, v)
		}
		sb.WriteString("?")
		sb.WriteString(q.Encode())
	}
	return sb.String()
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
	var version sql.NullString
	if err := d.db.QueryRowContext(ctx, versionQuery).Scan(&version); err != nil {
		return "", mapError(err, "failed to read server version")
	}
	return version.String, nil
}
