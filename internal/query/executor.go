// Package query executes parameterized statements against a session's pool
// and normalizes the result shape independent of the underlying driver.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/dbcove/dbcove/internal/database"
)

// ConnSource hands out the live pool for a connection id. Implemented by
// session.Manager; faked in tests.
type ConnSource interface {
	Acquire(id string) (database.Conn, error)
}

// Column is one normalized result column.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Result is the normalized outcome of one statement.
type Result struct {
	Columns   []Column         `json:"columns"`
	Rows      []map[string]any `json:"rows"`
	RowCount  int              `json:"rowCount"`
	ElapsedMs float64          `json:"elapsedMs"`
}

// Executor issues statements through a ConnSource.
type Executor struct {
	src ConnSource
}

// NewExecutor creates an Executor over src.
func NewExecutor(src ConnSource) *Executor {
	return &Executor{src: src}
}

// Execute runs a row-returning statement with bound parameters against the
// session for id. Elapsed time is measured strictly around statement
// execution, after pool acquisition. An empty result set yields an empty
// column list, not an error.
func (e *Executor) Execute(ctx context.Context, id, statement string, args ...any) (*Result, error) {
	conn, err := e.src.Acquire(id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := conn.Query(ctx, statement, args...)
	if err != nil {
		return nil, err
	}
	data, names, types, err := database.ScanRows(rows)
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Rows:      data,
		RowCount:  len(data),
		ElapsedMs: float64(elapsed.Microseconds()) / 1000.0,
	}

	if len(data) == 0 && len(names) == 0 {
		res.Columns = []Column{}
		return res, nil
	}

	res.Columns = make([]Column, len(names))
	for i, name := range names {
		typ := ""
		if i < len(types) {
			typ = types[i]
		}
		if typ == "" && len(data) > 0 {
			// No descriptor from the driver; fall back to the first row's
			// Go-native type.
			typ = goTypeName(data[0][name])
		}
		res.Columns[i] = Column{Name: name, Type: typ}
	}
	return res, nil
}

// Exec runs a statement that returns no rows (DDL, DML) against the
// session for id.
func (e *Executor) Exec(ctx context.Context, id, statement string, args ...any) error {
	conn, err := e.src.Acquire(id)
	if err != nil {
		return err
	}
	return conn.Exec(ctx, statement, args...)
}

func goTypeName(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%T", v)
}
