// Package errs provides the unified error type used across all of dbcove.
//
// Every subsystem (vault, registry, session, query, ddl, …) wraps its native
// errors into *errs.Error before returning them to callers. Callers use the
// Is* predicates to handle errors without importing driver-specific packages.
//
// Usage:
//
//	// In a driver — wrap native errors:
//	return errs.Wrap(errs.ErrKindQueryFailed, "statement rejected", sqlErr)
//
//	// In a handler — check error kind:
//	if errs.IsNotFound(err) {
//	    http.Error(w, "not found", http.StatusNotFound)
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing subsystem-specific codes.
// All backends map their native errors to one of these kinds, giving
// callers a single consistent API.
type ErrKind int

const (
	ErrKindUnknown           ErrKind = iota
	ErrKindInvalidConfig             // missing or malformed connection fields
	ErrKindNotFound                  // unknown connection id or catalog object
	ErrKindConnectionRefused         // engine unreachable or auth rejected
	ErrKindNotConnected              // operation attempted on a disconnected session
	ErrKindQueryFailed               // engine rejected the statement
	ErrKindDecryptionFailed          // corrupt or foreign-key-encrypted secret
	ErrKindPersistenceFailed         // durable-store write error
	ErrKindTimeout                   // context deadline / cancellation
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindInvalidConfig:
		return "invalid_config"
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionRefused:
		return "connection_refused"
	case ErrKindNotConnected:
		return "not_connected"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindDecryptionFailed:
		return "decryption_failed"
	case ErrKindPersistenceFailed:
		return "persistence_failed"
	case ErrKindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// QueryContext carries engine-level diagnostics for query failures.
// All fields are optional; drivers fill in what their engine reports.
type QueryContext struct {
	Code      int64  `json:"code,omitempty"`      // engine error number
	Line      int32  `json:"line,omitempty"`      // 1-based line within the failing statement
	Procedure string `json:"procedure,omitempty"` // stored procedure name, if any
}

// Error is the single error type returned by all dbcove subsystems.
// Drivers produce it; callers inspect it via the Is* predicates below.
type Error struct {
	Kind    ErrKind
	Message string
	Query   *QueryContext // engine diagnostics, only for ErrKindQueryFailed
	Cause   error         // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf creates an *Error with a formatted message and no cause.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// WrapQuery creates a query-failure *Error carrying engine diagnostics.
func WrapQuery(msg string, qc *QueryContext, cause error) *Error {
	return &Error{Kind: ErrKindQueryFailed, Message: msg, Query: qc, Cause: cause}
}

// --- Predicates ---

// IsInvalidConfig reports whether err was caused by missing required fields.
func IsInvalidConfig(err error) bool {
	return KindOf(err) == ErrKindInvalidConfig
}

// IsNotFound reports whether err represents a "not found" result
// (unknown connection id, missing catalog object, …).
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsConnectionRefused reports whether err is a connectivity or auth failure.
func IsConnectionRefused(err error) bool {
	return KindOf(err) == ErrKindConnectionRefused
}

// IsNotConnected reports whether err was raised on a disconnected session.
func IsNotConnected(err error) bool {
	return KindOf(err) == ErrKindNotConnected
}

// IsQueryFailed reports whether err is a SQL execution error.
func IsQueryFailed(err error) bool {
	return KindOf(err) == ErrKindQueryFailed
}

// IsDecryptionFailed reports whether err is a secret integrity failure.
func IsDecryptionFailed(err error) bool {
	return KindOf(err) == ErrKindDecryptionFailed
}

// IsPersistenceFailed reports whether err is a durable-store write failure.
func IsPersistenceFailed(err error) bool {
	return KindOf(err) == ErrKindPersistenceFailed
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// KindOf extracts the ErrKind from any error in the chain.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}

// QueryContextOf extracts engine diagnostics from any error in the chain.
// Returns nil when the error carries none.
func QueryContextOf(err error) *QueryContext {
	var e *Error
	if errors.As(err, &e) {
		return e.Query
	}
	return nil
}
