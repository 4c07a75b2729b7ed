package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dbcove/dbcove/internal/catalog"
	"github.com/dbcove/dbcove/internal/ddl"
	"github.com/dbcove/dbcove/internal/export"
	"github.com/dbcove/dbcove/internal/query"
	"github.com/dbcove/dbcove/internal/server/middleware"
	"github.com/dbcove/dbcove/internal/server/response"
)

// DDLHandler serves DDL synthesis, object creation, and export.
type DDLHandler struct {
	synth    *ddl.Synthesizer
	executor *query.Executor
	engines  catalog.EngineSource

	// exporter is nil when no export storage is configured; the export
	// endpoints then answer 503.
	exporter *export.Exporter
}

// NewDDLHandler creates a DDLHandler. exporter may be nil.
func NewDDLHandler(synth *ddl.Synthesizer, executor *query.Executor, engines catalog.EngineSource, exporter *export.Exporter) *DDLHandler {
	return &DDLHandler{synth: synth, executor: executor, engines: engines, exporter: exporter}
}

// Get handles GET /connections/{id}/ddl/{type}/{name}: reconstructs the
// object's DDL from catalog metadata.
func (h *DDLHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	doc, err := h.synth.Synthesize(r.Context(),
		chi.URLParam(r, "id"),
		ddl.ObjectType(chi.URLParam(r, "type")),
		chi.URLParam(r, "name"))
	if err != nil {
		response.FromErr(w, err, requestID)
		return
	}
	response.Success(w, http.StatusOK, doc, requestID)
}

// Export handles POST /connections/{id}/ddl/{type}/{name}/export: stores
// the synthesized DDL in the export bucket and returns a download link.
func (h *DDLHandler) Export(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if h.exporter == nil {
		response.Err(w, http.StatusServiceUnavailable, "unavailable",
			"export storage is not configured", requestID)
		return
	}

	res, err := h.exporter.Export(r.Context(),
		chi.URLParam(r, "id"),
		ddl.ObjectType(chi.URLParam(r, "type")),
		chi.URLParam(r, "name"))
	if err != nil {
		response.FromErr(w, err, requestID)
		return
	}
	response.Success(w, http.StatusCreated, res, requestID)
}

// Exports handles GET /connections/{id}/exports?limit=n: lists earlier
// exports for the connection.
func (h *DDLHandler) Exports(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if h.exporter == nil {
		response.Err(w, http.StatusServiceUnavailable, "unavailable",
			"export storage is not configured", requestID)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	objects, err := h.exporter.Previous(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		response.FromErr(w, err, requestID)
		return
	}
	response.Success(w, http.StatusOK, objects, requestID)
}

// CreateTable handles POST /connections/{id}/tables: builds and executes
// a CREATE TABLE statement from the supplied definition.
func (h *DDLHandler) CreateTable(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")

	var spec ddl.TableSpec
	if !decodeBody(w, r, &spec) {
		return
	}

	engine, err := h.engines.EngineOf(id)
	if err != nil {
		response.FromErr(w, err, requestID)
		return
	}

	stmt, err := ddl.BuildCreateTable(engine, spec)
	if err != nil {
		response.FromErr(w, err, requestID)
		return
	}
	if err := h.executor.Exec(r.Context(), id, stmt); err != nil {
		response.FromErr(w, err, requestID)
		return
	}
	response.Success(w, http.StatusCreated, map[string]string{"sql": stmt}, requestID)
}

// CreateView handles POST /connections/{id}/views.
func (h *DDLHandler) CreateView(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")

	var spec ddl.ViewSpec
	if !decodeBody(w, r, &spec) {
		return
	}

	stmt, err := ddl.BuildCreateView(spec)
	if err != nil {
		response.FromErr(w, err, requestID)
		return
	}
	if err := h.executor.Exec(r.Context(), id, stmt); err != nil {
		response.FromErr(w, err, requestID)
		return
	}
	response.Success(w, http.StatusCreated, map[string]string{"sql": stmt}, requestID)
}
