// Package handler implements the HTTP handlers over the session manager,
// query executor, metadata reader, DDL synthesizer and exporter.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dbcove/dbcove/internal/database"
	"github.com/dbcove/dbcove/internal/registry"
	"github.com/dbcove/dbcove/internal/server/middleware"
	"github.com/dbcove/dbcove/internal/server/response"
	"github.com/dbcove/dbcove/internal/session"
)

// connectionRequest is the request body for adding or testing a
// connection.
type connectionRequest struct {
	Name     string            `json:"name"`
	Engine   string            `json:"engine"`
	Host     string            `json:"host"`
	Port     int               `json:"port"`
	Database string            `json:"database"`
	Username string            `json:"username"`
	Password string            `json:"password"`
	Options  map[string]string `json:"options,omitempty"`
}

func (r *connectionRequest) toConfig() *registry.Config {
	return &registry.Config{
		Name:     r.Name,
		Engine:   database.Engine(r.Engine),
		Host:     r.Host,
		Port:     r.Port,
		Database: r.Database,
		Username: r.Username,
		Password: r.Password,
		Options:  r.Options,
	}
}

// ConnectionHandler serves the connection lifecycle endpoints.
type ConnectionHandler struct {
	manager *session.Manager
}

// NewConnectionHandler creates a ConnectionHandler over manager.
func NewConnectionHandler(manager *session.Manager) *ConnectionHandler {
	return &ConnectionHandler{manager: manager}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Err(w, http.StatusBadRequest, "invalid_config",
			"invalid request body: "+err.Error(), middleware.GetRequestID(r.Context()))
		return false
	}
	return true
}

// List handles GET /connections.
func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, h.manager.Connections(),
		middleware.GetRequestID(r.Context()))
}

// Active handles GET /connections/active.
func (h *ConnectionHandler) Active(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, h.manager.ActiveConnections(),
		middleware.GetRequestID(r.Context()))
}

// Add handles POST /connections: validates by connecting once, then
// persists the configuration.
func (h *ConnectionHandler) Add(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req connectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	red, err := h.manager.AddConnection(r.Context(), req.toConfig())
	if err != nil {
		response.FromErr(w, err, requestID)
		return
	}
	response.Success(w, http.StatusCreated, red, requestID)
}

// Test handles POST /connections/test: a transient probe that stores
// nothing.
func (h *ConnectionHandler) Test(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req connectionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.manager.TestConnection(r.Context(), req.toConfig())
	if err != nil {
		response.FromErr(w, err, requestID)
		return
	}
	response.Success(w, http.StatusOK, res, requestID)
}

// Connect handles POST /connections/{id}/connect.
func (h *ConnectionHandler) Connect(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	red, err := h.manager.Connect(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.FromErr(w, err, requestID)
		return
	}
	response.Success(w, http.StatusOK, red, requestID)
}

// Disconnect handles POST /connections/{id}/disconnect. Disconnecting an
// already-disconnected session succeeds.
func (h *ConnectionHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := h.manager.Disconnect(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.FromErr(w, err, requestID)
		return
	}
	response.NoContent(w)
}

// Remove handles DELETE /connections/{id}.
func (h *ConnectionHandler) Remove(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := h.manager.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.FromErr(w, err, requestID)
		return
	}
	response.NoContent(w)
}

// Health handles GET /connections/health: probes every connected session.
func (h *ConnectionHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, h.manager.HealthCheck(r.Context()),
		middleware.GetRequestID(r.Context()))
}

// VerifySecrets handles GET /connections/secrets: reports per-connection
// secret integrity.
func (h *ConnectionHandler) VerifySecrets(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, h.manager.VerifySecrets(),
		middleware.GetRequestID(r.Context()))
}

// RotateKey handles POST /connections/rotate-key: generates a new master
// key and re-encrypts every stored password under it.
func (h *ConnectionHandler) RotateKey(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := h.manager.RotateKey(); err != nil {
		response.FromErr(w, err, requestID)
		return
	}
	response.NoContent(w)
}
