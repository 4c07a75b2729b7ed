package query

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbcove/dbcove/internal/database"
	"github.com/dbcove/dbcove/internal/errs"
)

// sqlConn adapts a raw *sql.DB into database.Conn so the executor can be
// exercised against sqlmock.
type sqlConn struct {
	db *sql.DB
}

func (c *sqlConn) Ping(ctx context.Context) error { return c.db.PingContext(ctx) }
func (c *sqlConn) Close() error                   { return c.db.Close() }

func (c *sqlConn) Query(ctx context.Context, statement string, args ...any) (database.Rows, error) {
	rows, err := c.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "query failed", err)
	}
	return database.WrapSQLRows(rows), nil
}

func (c *sqlConn) Exec(ctx context.Context, statement string, args ...any) error {
	if _, err := c.db.ExecContext(ctx, statement, args...); err != nil {
		return errs.Wrap(errs.ErrKindQueryFailed, "exec failed", err)
	}
	return nil
}

func (c *sqlConn) ServerVersion(ctx context.Context) (string, error) { return "mock", nil }

// fixedSource hands out one conn for every id, or an error.
type fixedSource struct {
	conn database.Conn
	err  error
}

func (s *fixedSource) Acquire(id string) (database.Conn, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.conn, nil
}

func newMockExecutor(t *testing.T) (*Executor, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewExecutor(&fixedSource{conn: &sqlConn{db: db}}), mock
}

func TestExecutor_Execute(t *testing.T) {
	e, mock := newMockExecutor(t)

	mock.ExpectQuery("SELECT ID, NAME FROM USERS").
		WillReturnRows(sqlmock.NewRows([]string{"ID", "NAME"}).
			AddRow(int64(1), "ada").
			AddRow(int64(2), "grace"))

	res, err := e.Execute(context.Background(), "crm", "SELECT ID, NAME FROM USERS")
	require.NoError(t, err)

	assert.Equal(t, 2, res.RowCount)
	require.Len(t, res.Columns, 2)
	assert.Equal(t, "ID", res.Columns[0].Name)
	assert.Equal(t, "NAME", res.Columns[1].Name)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, int64(1), res.Rows[0]["ID"])
	assert.Equal(t, "ada", res.Rows[0]["NAME"])
	assert.GreaterOrEqual(t, res.ElapsedMs, 0.0)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutor_ExecuteWithArgs(t *testing.T) {
	e, mock := newMockExecutor(t)

	mock.ExpectQuery("SELECT NAME FROM USERS WHERE ID = ?").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"NAME"}).AddRow("ada"))

	res, err := e.Execute(context.Background(), "crm",
		"SELECT NAME FROM USERS WHERE ID = ?", int64(7))
	require.NoError(t, err)
	assert.Equal(t, 1, res.RowCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutor_EmptyResult(t *testing.T) {
	e, mock := newMockExecutor(t)

	mock.ExpectQuery("SELECT ID FROM EMPTY_TABLE").
		WillReturnRows(sqlmock.NewRows([]string{"ID"}))

	res, err := e.Execute(context.Background(), "crm", "SELECT ID FROM EMPTY_TABLE")
	require.NoError(t, err)
	assert.Equal(t, 0, res.RowCount)
	assert.NotNil(t, res.Rows)
	assert.Empty(t, res.Rows)
	require.Len(t, res.Columns, 1, "column descriptors survive an empty result")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutor_ByteSlicesNormalizeToStrings(t *testing.T) {
	e, mock := newMockExecutor(t)

	mock.ExpectQuery("SELECT SOURCE FROM ROUTINES").
		WillReturnRows(sqlmock.NewRows([]string{"SOURCE"}).AddRow([]byte("BEGIN END")))

	res, err := e.Execute(context.Background(), "crm", "SELECT SOURCE FROM ROUTINES")
	require.NoError(t, err)
	assert.Equal(t, "BEGIN END", res.Rows[0]["SOURCE"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutor_QueryError(t *testing.T) {
	e, mock := newMockExecutor(t)

	mock.ExpectQuery("SELECT BROKEN").
		WillReturnError(assert.AnError)

	_, err := e.Execute(context.Background(), "crm", "SELECT BROKEN")
	require.Error(t, err)
	assert.True(t, errs.IsQueryFailed(err))
}

func TestExecutor_NotConnected(t *testing.T) {
	e := NewExecutor(&fixedSource{
		err: errs.New(errs.ErrKindNotConnected, "connection is not connected"),
	})

	_, err := e.Execute(context.Background(), "crm", "SELECT 1")
	require.Error(t, err)
	assert.True(t, errs.IsNotConnected(err))

	err = e.Exec(context.Background(), "crm", "DROP TABLE X")
	require.Error(t, err)
	assert.True(t, errs.IsNotConnected(err))
}

func TestExecutor_Exec(t *testing.T) {
	e, mock := newMockExecutor(t)

	mock.ExpectExec("CREATE TABLE T").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, e.Exec(context.Background(), "crm", "CREATE TABLE T (ID INTEGER)"))
	require.NoError(t, mock.ExpectationsWereMet())
}
