package database

import (
	"strings"

	"github.com/dbcove/dbcove/internal/errs"
)

// QuoteIdent wraps a SQL identifier in double-quotes (ANSI standard).
// This safely handles reserved words and mixed-case names. Both supported
// engines accept double-quoted identifiers.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// ValidIdent reports whether name is safe to interpolate into generated
// DDL. Identifiers cannot be bound as parameters, so statement builders
// validate them instead: letters, digits, underscore, dollar, starting
// with a letter or underscore.
func ValidIdent(name string) bool {
	if name == "" || len(name) > 63 {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '$'):
		default:
			return false
		}
	}
	return true
}

// CheckIdent returns ErrKindInvalidConfig when name fails ValidIdent.
func CheckIdent(kind, name string) error {
	if !ValidIdent(name) {
		return errs.Newf(errs.ErrKindInvalidConfig, "invalid %s identifier %q", kind, name)
	}
	return nil
}
