package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	mssqldb "github.com/microsoft/go-mssqldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbcove/dbcove/internal/errs"
)

func TestMapError_Nil(t *testing.T) {
	assert.Nil(t, mapError(nil, "ping"))
}

func TestMapError_Context(t *testing.T) {
	err := mapError(context.DeadlineExceeded, "ping")
	assert.True(t, errs.IsTimeout(err))

	err = mapError(fmt.Errorf("query: %w", context.Canceled), "execute")
	assert.True(t, errs.IsTimeout(err))
}

func TestMapError_NoRows(t *testing.T) {
	err := mapError(sql.ErrNoRows, "lookup")
	assert.True(t, errs.IsNotFound(err))
}

func TestMapError_LoginFailures(t *testing.T) {
	for _, number := range []int32{18456, 4060, 18488} {
		srv := mssqldb.Error{Number: number, Message: "Login failed for user 'app'."}
		err := mapError(srv, "opening pool")
		assert.True(t, errs.IsConnectionRefused(err), "number %d", number)
	}
}

func TestMapError_StatementFailureCarriesDiagnostics(t *testing.T) {
	srv := mssqldb.Error{
		Number:   207,
		Message:  "Invalid column name 'Nane'.",
		LineNo:   4,
		ProcName: "dbo.Touch",
	}
	err := mapError(srv, "executing statement")
	assert.True(t, errs.IsQueryFailed(err))

	qc := errs.QueryContextOf(err)
	require.NotNil(t, qc)
	assert.Equal(t, int64(207), qc.Code)
	assert.Equal(t, int32(4), qc.Line)
	assert.Equal(t, "dbo.Touch", qc.Procedure)
	assert.Contains(t, err.Error(), "Invalid column name")
}

func TestMapError_NetworkFallsBackToRefused(t *testing.T) {
	err := mapError(errors.New("dial tcp 10.0.0.5:1433: connect: connection refused"), "opening pool")
	assert.True(t, errs.IsConnectionRefused(err))
}
