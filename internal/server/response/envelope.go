// Package response defines the uniform JSON envelope every API endpoint
// writes, including the mapping from internal error kinds to HTTP status
// codes.
package response

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dbcove/dbcove/internal/errs"
)

// Meta holds metadata for every API response.
type Meta struct {
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
}

// Error is the structured API error. Code, Line and Procedure carry
// engine diagnostics for failed statements and are omitted otherwise.
type Error struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Code      int64  `json:"code,omitempty"`
	Line      int32  `json:"line,omitempty"`
	Procedure string `json:"procedure,omitempty"`
}

// Envelope is the standard API response wrapper.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Error   *Error `json:"error"`
	Meta    Meta   `json:"meta"`
}

// NewMeta creates a Meta with the given request id, generating one when
// empty.
func NewMeta(requestID string) Meta {
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return Meta{
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// JSON writes a JSON response with the given status code and envelope.
func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding the envelope cannot fail for the types we put in it; a
	// broken client connection is not actionable here.
	_ = json.NewEncoder(w).Encode(env)
}

// Success writes a successful JSON response.
func Success(w http.ResponseWriter, status int, data any, requestID string) {
	JSON(w, status, Envelope{
		Success: true,
		Data:    data,
		Error:   nil,
		Meta:    NewMeta(requestID),
	})
}

// NoContent writes a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind errs.ErrKind) int {
	switch kind {
	case errs.ErrKindInvalidConfig:
		return http.StatusBadRequest
	case errs.ErrKindNotFound:
		return http.StatusNotFound
	case errs.ErrKindNotConnected:
		return http.StatusConflict
	case errs.ErrKindQueryFailed:
		return http.StatusBadRequest
	case errs.ErrKindConnectionRefused:
		return http.StatusBadGateway
	case errs.ErrKindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// FromErr writes err as an error envelope, deriving the HTTP status from
// the error kind and attaching engine diagnostics when present.
func FromErr(w http.ResponseWriter, err error, requestID string) {
	kind := errs.KindOf(err)

	apiErr := &Error{
		Kind:    kind.String(),
		Message: err.Error(),
	}
	if qc := errs.QueryContextOf(err); qc != nil {
		apiErr.Code = qc.Code
		apiErr.Line = qc.Line
		apiErr.Procedure = qc.Procedure
	}

	JSON(w, statusFor(kind), Envelope{
		Success: false,
		Data:    nil,
		Error:   apiErr,
		Meta:    NewMeta(requestID),
	})
}

// Err writes a plain error envelope with an explicit status and kind.
func Err(w http.ResponseWriter, status int, kind, message, requestID string) {
	JSON(w, status, Envelope{
		Success: false,
		Data:    nil,
		Error:   &Error{Kind: kind, Message: message},
		Meta:    NewMeta(requestID),
	})
}
