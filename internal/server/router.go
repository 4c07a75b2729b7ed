// Package server wires the HTTP API: router construction, middleware, and
// the route table over the handlers.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dbcove/dbcove/internal/catalog"
	"github.com/dbcove/dbcove/internal/ddl"
	"github.com/dbcove/dbcove/internal/export"
	"github.com/dbcove/dbcove/internal/logger"
	"github.com/dbcove/dbcove/internal/query"
	"github.com/dbcove/dbcove/internal/server/handler"
	"github.com/dbcove/dbcove/internal/server/middleware"
	"github.com/dbcove/dbcove/internal/server/response"
	"github.com/dbcove/dbcove/internal/session"
)

// Deps holds everything the router needs.
type Deps struct {
	Manager  *session.Manager
	Executor *query.Executor
	Reader   *catalog.Reader
	Synth    *ddl.Synthesizer

	// Exporter is nil when export storage is not configured.
	Exporter *export.Exporter

	Log     *logger.Logger
	Version string
}

// NewRouter creates the Chi router with all middleware and routes.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Log))
	r.Use(middleware.Logging(deps.Log))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		response.Success(w, http.StatusOK,
			map[string]string{"status": "ok", "version": deps.Version},
			middleware.GetRequestID(req.Context()))
	})

	conns := handler.NewConnectionHandler(deps.Manager)
	queries := handler.NewQueryHandler(deps.Executor)
	meta := handler.NewMetadataHandler(deps.Reader)
	ddls := handler.NewDDLHandler(deps.Synth, deps.Executor, deps.Manager, deps.Exporter)

	r.Route("/connections", func(r chi.Router) {
		r.Get("/", conns.List)
		r.Post("/", conns.Add)
		r.Post("/test", conns.Test)
		r.Get("/active", conns.Active)
		r.Get("/health", conns.Health)
		r.Get("/secrets", conns.VerifySecrets)
		r.Post("/rotate-key", conns.RotateKey)

		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", conns.Remove)
			r.Post("/connect", conns.Connect)
			r.Post("/disconnect", conns.Disconnect)

			r.Post("/query", queries.Execute)

			r.Get("/meta/{kind}", meta.List)
			r.Get("/meta/tables/{table}/columns", meta.Columns)
			r.Get("/meta/tables/{table}/constraints", meta.Constraints)
			r.Get("/meta/tables/{table}/indexes", meta.Indexes)

			r.Get("/ddl/{type}/{name}", ddls.Get)
			r.Post("/ddl/{type}/{name}/export", ddls.Export)
			r.Get("/exports", ddls.Exports)

			r.Post("/tables", ddls.CreateTable)
			r.Post("/views", ddls.CreateView)
		})
	})

	return r
}
