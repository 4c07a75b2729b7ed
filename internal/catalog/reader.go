package catalog

import (
	"context"
	"strings"

	"github.com/dbcove/dbcove/internal/database"
	"github.com/dbcove/dbcove/internal/errs"
	"github.com/dbcove/dbcove/internal/query"
)

// querySet is the fixed catalog of introspection queries for one dialect.
// An empty string means the dialect has no such object category; the
// reader returns an empty result for it.
type querySet struct {
	tables     string
	views      string
	procedures string
	functions  string
	triggers   string
	sequences  string
	packages   string
	users      string
	schemas    string
	allIndexes string

	columns       string // param: table name
	constraints   string // param: table name
	indexes       string // param: table name
	indexSegments string // param: index name

	viewSource      string // param: view name
	procedureSource string // param: procedure name
	functionSource  string // param: function name
	triggerSource   string // param: trigger name
	sequence        string // param: sequence name
	user            string // param: user name
	routineParams   string // param: routine name
}

func queriesFor(engine database.Engine) (*querySet, error) {
	switch engine {
	case database.EngineFirebird:
		return firebirdQueries, nil
	case database.EngineMSSQL:
		return mssqlQueries, nil
	default:
		return nil, errs.Newf(errs.ErrKindInvalidConfig, "no catalog queries for engine %q", engine)
	}
}

// Runner executes a statement against a session. Implemented by
// query.Executor; stubbed in tests.
type Runner interface {
	Execute(ctx context.Context, id, statement string, args ...any) (*query.Result, error)
}

// EngineSource reports the dialect of a connection id. Implemented by
// session.Manager.
type EngineSource interface {
	EngineOf(id string) (database.Engine, error)
}

// Reader executes the introspection catalog through a Runner. It never
// holds a pool itself, so it is testable with a stub runner.
type Reader struct {
	run     Runner
	engines EngineSource
}

// NewReader creates a Reader over run and engines.
func NewReader(run Runner, engines EngineSource) *Reader {
	return &Reader{run: run, engines: engines}
}

// NormalizeName uppercases an object name to the catalog convention used
// by both dialects for exact-name lookups.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func (r *Reader) queries(id string) (*querySet, error) {
	engine, err := r.engines.EngineOf(id)
	if err != nil {
		return nil, err
	}
	return queriesFor(engine)
}

// list runs a no-parameter catalog query. An empty query text means the
// category does not exist in this dialect: empty result, not an error.
func (r *Reader) list(ctx context.Context, id, statement string) ([]Row, error) {
	if statement == "" {
		return []Row{}, nil
	}
	res, err := r.run.Execute(ctx, id, statement)
	if err != nil {
		return nil, err
	}
	return toRows(res), nil
}

func (r *Reader) lookup(ctx context.Context, id, statement, name string) ([]Row, error) {
	if statement == "" {
		return []Row{}, nil
	}
	res, err := r.run.Execute(ctx, id, statement, NormalizeName(name))
	if err != nil {
		return nil, err
	}
	return toRows(res), nil
}

func toRows(res *query.Result) []Row {
	rows := make([]Row, len(res.Rows))
	for i, m := range res.Rows {
		rows[i] = Row(m)
	}
	return rows
}

// --- object category listings ---

func (r *Reader) ListTables(ctx context.Context, id string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, id, qs.tables)
}

func (r *Reader) ListViews(ctx context.Context, id string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, id, qs.views)
}

func (r *Reader) ListProcedures(ctx context.Context, id string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, id, qs.procedures)
}

func (r *Reader) ListFunctions(ctx context.Context, id string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, id, qs.functions)
}

func (r *Reader) ListTriggers(ctx context.Context, id string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, id, qs.triggers)
}

func (r *Reader) ListSequences(ctx context.Context, id string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, id, qs.sequences)
}

func (r *Reader) ListPackages(ctx context.Context, id string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, id, qs.packages)
}

func (r *Reader) ListUsers(ctx context.Context, id string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, id, qs.users)
}

func (r *Reader) ListSchemas(ctx context.Context, id string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, id, qs.schemas)
}

func (r *Reader) ListIndexes(ctx context.Context, id string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, id, qs.allIndexes)
}

// --- per-object queries ---

// TableColumns returns the ordered column metadata of one table.
func (r *Reader) TableColumns(ctx context.Context, id, table string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.lookup(ctx, id, qs.columns, table)
}

// TableConstraints returns the primary-key and unique constraints of one
// table, each naming its backing index.
func (r *Reader) TableConstraints(ctx context.Context, id, table string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.lookup(ctx, id, qs.constraints, table)
}

// TableIndexes returns the indexes of one table.
func (r *Reader) TableIndexes(ctx context.Context, id, table string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.lookup(ctx, id, qs.indexes, table)
}

// IndexColumns resolves the ordered member columns of one index. Object
// DDL needs column order, not just membership, which is why this segment
// query exists separately from TableIndexes.
func (r *Reader) IndexColumns(ctx context.Context, id, index string) ([]string, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	rows, err := r.lookup(ctx, id, qs.indexSegments, index)
	if err != nil {
		return nil, err
	}
	cols := make([]string, 0, len(rows))
	for _, row := range rows {
		cols = append(cols, row.Str("FIELD_NAME", "NAME"))
	}
	return cols, nil
}

// ViewSource returns the stored source row of one view, or empty.
func (r *Reader) ViewSource(ctx context.Context, id, name string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.lookup(ctx, id, qs.viewSource, name)
}

// ProcedureSource returns the stored source row of one procedure.
func (r *Reader) ProcedureSource(ctx context.Context, id, name string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.lookup(ctx, id, qs.procedureSource, name)
}

// FunctionSource returns the stored source row of one function.
func (r *Reader) FunctionSource(ctx context.Context, id, name string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.lookup(ctx, id, qs.functionSource, name)
}

// TriggerSource returns the stored source row of one trigger.
func (r *Reader) TriggerSource(ctx context.Context, id, name string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.lookup(ctx, id, qs.triggerSource, name)
}

// Sequence returns the definition row of one sequence/generator.
func (r *Reader) Sequence(ctx context.Context, id, name string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.lookup(ctx, id, qs.sequence, name)
}

// User returns the catalog row of one user principal.
func (r *Reader) User(ctx context.Context, id, name string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.lookup(ctx, id, qs.user, name)
}

// RoutineParams returns the ordered parameter rows of one routine, or
// empty when the dialect/version does not expose parameter metadata.
func (r *Reader) RoutineParams(ctx context.Context, id, name string) ([]Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	return r.lookup(ctx, id, qs.routineParams, name)
}

// FindIndex returns the named index's row within its table listing.
func (r *Reader) FindIndex(ctx context.Context, id, name string) (Row, error) {
	qs, err := r.queries(id)
	if err != nil {
		return nil, err
	}
	rows, err := r.list(ctx, id, qs.allIndexes)
	if err != nil {
		return nil, err
	}
	want := NormalizeName(name)
	for _, row := range rows {
		if strings.EqualFold(row.Str("NAME"), want) {
			return row, nil
		}
	}
	return nil, nil
}
