package firebird

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dbcove/dbcove/internal/errs"
)

func TestMapError_Nil(t *testing.T) {
	assert.Nil(t, mapError(nil, "ping"))
}

func TestMapError_Context(t *testing.T) {
	assert.True(t, errs.IsTimeout(mapError(context.DeadlineExceeded, "ping")))
	assert.True(t, errs.IsTimeout(mapError(context.Canceled, "ping")))
}

func TestMapError_NoRows(t *testing.T) {
	assert.True(t, errs.IsNotFound(mapError(sql.ErrNoRows, "lookup")))
}

func TestMapError_ConnectivityByMessage(t *testing.T) {
	refused := []string{
		"Your user name and password are not defined. Ask your database administrator to set up a Firebird login.",
		"unavailable database",
		"Cannot attach to services manager",
		"dial tcp 10.0.0.9:3050: connect: connection refused",
		"read tcp 10.0.0.9:3050: connection reset by peer",
		"lookup fbhost: no such host",
		"I/O error during \"open\" operation for file \"/data/crm.fdb\"",
	}
	for _, text := range refused {
		err := mapError(errors.New(text), "opening pool")
		assert.True(t, errs.IsConnectionRefused(err), text)
	}
}

func TestMapError_StatementFailuresByMessage(t *testing.T) {
	failed := []string{
		"Dynamic SQL Error\nSQL error code = -104\nToken unknown - line 1, column 8\nFORM",
		"Column does not belong to referenced table. SQL error code = -206",
	}
	for _, text := range failed {
		err := mapError(errors.New(text), "executing statement")
		assert.True(t, errs.IsQueryFailed(err), text)
	}
}

func TestMapError_UnrecognizedDefaultsToQueryFailed(t *testing.T) {
	err := mapError(errors.New("arithmetic exception, numeric overflow"), "executing statement")
	assert.True(t, errs.IsQueryFailed(err))
}
