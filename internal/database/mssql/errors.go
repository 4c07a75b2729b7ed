package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dbcove/dbcove/internal/errs"
	mssqldb "github.com/microsoft/go-mssqldb"
)

// Engine error numbers that indicate the server rejected the login rather
// than the statement.
const (
	errLoginFailed     = 18456
	errCannotOpenDB    = 4060
	errPasswordExpired = 18488
)

// mapError translates go-mssqldb native errors into *errs.Error,
// preserving the engine's error number, line, and procedure context.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var srvErr mssqldb.Error
	if errors.As(err, &srvErr) {
		qc := &errs.QueryContext{
			Code:      int64(srvErr.Number),
			Line:      srvErr.LineNo,
			Procedure: srvErr.ProcName,
		}
		switch srvErr.Number {
		case errLoginFailed, errCannotOpenDB, errPasswordExpired:
			return errs.Wrap(errs.ErrKindConnectionRefused,
				fmt.Sprintf("%s: %s", msg, srvErr.Message), err)
		}
		return errs.WrapQuery(fmt.Sprintf("%s: %s", msg, srvErr.Message), qc, err)
	}

	// Fallthrough: network, TLS, and handshake failures.
	return errs.Wrap(errs.ErrKindConnectionRefused, msg, err)
}
