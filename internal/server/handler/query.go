package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dbcove/dbcove/internal/query"
	"github.com/dbcove/dbcove/internal/server/middleware"
	"github.com/dbcove/dbcove/internal/server/response"
)

// queryRequest is the request body for executing a statement.
type queryRequest struct {
	SQL  string `json:"sql"`
	Args []any  `json:"args,omitempty"`
}

// QueryHandler serves ad-hoc statement execution.
type QueryHandler struct {
	executor *query.Executor
}

// NewQueryHandler creates a QueryHandler over executor.
func NewQueryHandler(executor *query.Executor) *QueryHandler {
	return &QueryHandler{executor: executor}
}

// Execute handles POST /connections/{id}/query. Row-returning statements
// yield the normalized result; everything else yields an empty result
// with its elapsed time.
func (h *QueryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req queryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.SQL) == "" {
		response.Err(w, http.StatusBadRequest, "invalid_config",
			"sql must not be empty", requestID)
		return
	}

	res, err := h.executor.Execute(r.Context(), chi.URLParam(r, "id"), req.SQL, req.Args...)
	if err != nil {
		response.FromErr(w, err, requestID)
		return
	}
	response.Success(w, http.StatusOK, res, requestID)
}
