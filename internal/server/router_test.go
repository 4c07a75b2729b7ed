package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbcove/dbcove/internal/catalog"
	"github.com/dbcove/dbcove/internal/database"
	"github.com/dbcove/dbcove/internal/ddl"
	"github.com/dbcove/dbcove/internal/logger"
	"github.com/dbcove/dbcove/internal/query"
	"github.com/dbcove/dbcove/internal/registry"
	"github.com/dbcove/dbcove/internal/session"
	"github.com/dbcove/dbcove/internal/vault"
)

// memRows is an in-memory database.Rows over fixed data.
type memRows struct {
	cols []string
	data [][]any
	i    int
}

func (r *memRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *memRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	for i, d := range dest {
		*(d.(*any)) = row[i]
	}
	return nil
}

func (r *memRows) Columns() ([]string, error)     { return r.cols, nil }
func (r *memRows) ColumnTypes() ([]string, error) { return make([]string, len(r.cols)), nil }
func (r *memRows) Close()                         {}
func (r *memRows) Err() error                     { return nil }

// apiConn serves a minimal Firebird-shaped catalog plus one data table.
type apiConn struct{}

func (apiConn) Ping(context.Context) error { return nil }
func (apiConn) Close() error               { return nil }

func (apiConn) ServerVersion(context.Context) (string, error) { return "3.0.10", nil }

func (apiConn) Exec(_ context.Context, sql string, _ ...any) error { return nil }

func (apiConn) Query(_ context.Context, sql string, _ ...any) (database.Rows, error) {
	switch {
	case strings.Contains(sql, "RDB$RELATION_FIELDS"):
		return &memRows{
			cols: []string{"FIELD_NAME", "FIELD_TYPE", "FIELD_SUB_TYPE", "CHARACTER_LENGTH", "NULL_FLAG"},
			data: [][]any{
				{"ID", int64(8), int64(0), nil, int64(1)},
				{"USERNAME", int64(37), int64(0), int64(40), int64(0)},
			},
		}, nil
	case strings.Contains(sql, "RDB$RELATION_CONSTRAINTS"),
		strings.Contains(sql, "RDB$INDEX_SEGMENTS"),
		strings.Contains(sql, "RDB$INDICES"):
		return &memRows{cols: []string{"NAME"}}, nil
	case strings.Contains(sql, "RDB$RELATIONS"):
		return &memRows{cols: []string{"NAME"}, data: [][]any{{"USERS"}}}, nil
	default:
		return &memRows{
			cols: []string{"ID", "USERNAME"},
			data: [][]any{{int64(1), "alice"}, {int64(2), "bob"}},
		}, nil
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	dir := t.TempDir()
	v, err := vault.New(filepath.Join(dir, "vault.key"))
	require.NoError(t, err)

	store := registry.NewStore(filepath.Join(dir, "connections.json"), v, logger.Nop())
	require.NoError(t, store.Load())

	manager := session.NewManager(store, logger.Nop(),
		session.WithOpenFunc(func(context.Context, *database.ConnectConfig) (database.Conn, error) {
			return apiConn{}, nil
		}))
	executor := query.NewExecutor(manager)
	reader := catalog.NewReader(executor, manager)
	synth := ddl.NewSynthesizer(reader, manager)

	return NewRouter(Deps{
		Manager:  manager,
		Executor: executor,
		Reader:   reader,
		Synth:    synth,
		Log:      logger.Nop(),
		Version:  "test",
	})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func dataOf(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success, "success envelope expected for %s", rec.Body.String())
	return env.Data
}

func TestRouter_Health(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", dataOf(t, rec)["status"])
}

func TestRouter_ConnectionLifecycle(t *testing.T) {
	r := newTestRouter(t)

	add := map[string]any{
		"name":     "crm-prod",
		"engine":   "firebird",
		"host":     "db.internal",
		"port":     3050,
		"database": "/data/crm.fdb",
		"username": "app",
		"password": "hunter2",
	}
	rec := do(t, r, http.MethodPost, "/connections", add)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := dataOf(t, rec)
	id, _ := data["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, false, data["isActive"])
	assert.NotEqual(t, "hunter2", data["password"])

	// Listing never leaks the plaintext password.
	rec = do(t, r, http.MethodGet, "/connections", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.Contains(t, rec.Body.String(), "crm-prod")

	// Querying before connect is a conflict.
	rec = do(t, r, http.MethodPost, "/connections/"+id+"/query",
		map[string]any{"sql": "SELECT * FROM USERS"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, r, http.MethodPost, "/connections/"+id+"/connect", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, dataOf(t, rec)["isActive"])

	rec = do(t, r, http.MethodPost, "/connections/"+id+"/query",
		map[string]any{"sql": "SELECT * FROM USERS"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(2), dataOf(t, rec)["rowCount"])

	rec = do(t, r, http.MethodGet, "/connections/"+id+"/meta/tables", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "USERS")

	rec = do(t, r, http.MethodGet, "/connections/"+id+"/ddl/table/USERS", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sql, _ := dataOf(t, rec)["sql"].(string)
	assert.Contains(t, sql, `CREATE TABLE "USERS"`)
	assert.Contains(t, sql, `"USERNAME" VARCHAR(40)`)

	// No export storage configured.
	rec = do(t, r, http.MethodGet, "/connections/"+id+"/exports", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, r, http.MethodPost, "/connections/"+id+"/disconnect", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, r, http.MethodDelete, "/connections/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, r, http.MethodPost, "/connections/"+id+"/connect", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ErrorsAreEnveloped(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/connections/nope/connect", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var env struct {
		Success bool `json:"success"`
		Error   *struct {
			Kind string `json:"kind"`
		} `json:"error"`
		Meta struct {
			RequestID string `json:"requestId"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "not_found", env.Error.Kind)
	assert.NotEmpty(t, env.Meta.RequestID)
}

func TestRouter_UnknownMetadataKind(t *testing.T) {
	r := newTestRouter(t)

	add := map[string]any{
		"name": "x", "engine": "firebird", "host": "h", "database": "/d.fdb",
	}
	rec := do(t, r, http.MethodPost, "/connections", add)
	require.Equal(t, http.StatusCreated, rec.Code)
	id, _ := dataOf(t, rec)["id"].(string)

	rec = do(t, r, http.MethodGet, "/connections/"+id+"/meta/tablespace", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
