package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dbcove/dbcove/internal/catalog"
	"github.com/dbcove/dbcove/internal/server/middleware"
	"github.com/dbcove/dbcove/internal/server/response"
)

// MetadataHandler serves schema object listings and per-table detail.
type MetadataHandler struct {
	reader *catalog.Reader
}

// NewMetadataHandler creates a MetadataHandler over reader.
func NewMetadataHandler(reader *catalog.Reader) *MetadataHandler {
	return &MetadataHandler{reader: reader}
}

type listFunc func(ctx context.Context, id string) ([]catalog.Row, error)

// listers maps the URL object-kind segment to its reader call. Kinds a
// dialect lacks (e.g. packages on the Transact-SQL side) come back as an
// empty list, not an error.
func (h *MetadataHandler) listers() map[string]listFunc {
	return map[string]listFunc{
		"tables":     h.reader.ListTables,
		"views":      h.reader.ListViews,
		"procedures": h.reader.ListProcedures,
		"functions":  h.reader.ListFunctions,
		"triggers":   h.reader.ListTriggers,
		"sequences":  h.reader.ListSequences,
		"packages":   h.reader.ListPackages,
		"users":      h.reader.ListUsers,
		"schemas":    h.reader.ListSchemas,
		"indexes":    h.reader.ListIndexes,
	}
}

// List handles GET /connections/{id}/meta/{kind}.
func (h *MetadataHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	kind := chi.URLParam(r, "kind")

	list, ok := h.listers()[kind]
	if !ok {
		response.Err(w, http.StatusNotFound, "not_found",
			"unknown object kind "+kind, requestID)
		return
	}

	rows, err := list(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromErr(w, err, requestID)
		return
	}
	response.Success(w, http.StatusOK, rows, requestID)
}

// Columns handles GET /connections/{id}/meta/tables/{table}/columns.
func (h *MetadataHandler) Columns(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	rows, err := h.reader.TableColumns(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "table"))
	if err != nil {
		response.FromErr(w, err, requestID)
		return
	}
	response.Success(w, http.StatusOK, rows, requestID)
}

// Constraints handles GET /connections/{id}/meta/tables/{table}/constraints.
func (h *MetadataHandler) Constraints(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	rows, err := h.reader.TableConstraints(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "table"))
	if err != nil {
		response.FromErr(w, err, requestID)
		return
	}
	response.Success(w, http.StatusOK, rows, requestID)
}

// Indexes handles GET /connections/{id}/meta/tables/{table}/indexes.
func (h *MetadataHandler) Indexes(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	rows, err := h.reader.TableIndexes(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "table"))
	if err != nil {
		response.FromErr(w, err, requestID)
		return
	}
	response.Success(w, http.StatusOK, rows, requestID)
}
