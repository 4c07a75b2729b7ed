package firebird

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dbcove/dbcove/internal/errs"
)

// mapError translates firebirdsql native errors into *errs.Error.
// The driver reports engine failures as plain errors carrying the GDS
// message text, so classification is by message inspection.
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

	text := strings.ToLower(err.Error())
	switch {
	case strings.Contains(text, "user name and password are not defined"),
		strings.Contains(text, "your user name and password"),
		strings.Contains(text, "connection refused"),
		strings.Contains(text, "unavailable database"),
		strings.Contains(text, "cannot attach"),
		strings.Contains(text, "connection reset"),
		strings.Contains(text, "dial tcp"),
		strings.Contains(text, "no such host"),
		strings.Contains(text, "i/o error"):
		return errs.Wrap(errs.ErrKindConnectionRefused, msg, err)
	case strings.Contains(text, "dynamic sql error"),
		strings.Contains(text, "sql error code"),
		strings.Contains(text, "token unknown"),
		strings.Contains(text, "is not defined"):
		return errs.WrapQuery(msg, nil, err)
	}

	return errs.WrapQuery(msg, nil, err)
}
