package database

import "database/sql"

// SQLRows adapts a *sql.Rows to the Rows interface. Both engine drivers are
// database/sql based, so the adapter lives here rather than being duplicated
// per driver.
type SQLRows struct {
	rows *sql.Rows
}

// WrapSQLRows wraps a *sql.Rows result set.
func WrapSQLRows(rows *sql.Rows) *SQLRows {
	return &SQLRows{rows: rows}
}

func (r *SQLRows) Next() bool             { return r.rows.Next() }
func (r *SQLRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *SQLRows) Close()                 { _ = r.rows.Close() }
func (r *SQLRows) Err() error             { return r.rows.Err() }

func (r *SQLRows) Columns() ([]string, error) {
	cols, err := r.rows.Columns()
	if err != nil {
		return nil, err
	}
	return cols, nil
}

func (r *SQLRows) ColumnTypes() ([]string, error) {
	cts, err := r.rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(cts))
	for i, ct := range cts {
		names[i] = ct.DatabaseTypeName()
	}
	return names, nil
}
