// Package ddl reconstructs executable DDL purely from catalog metadata:
// type-code translation, default-value re-quoting, and constraint/index
// re-assembly with deterministic output.
//
// The synthesizer never talks to a live pool directly — it reads through
// the catalog reader, which goes through the query executor, so the whole
// package is testable with a stub catalog.
package ddl

import (
	"context"
	"fmt"
	"strings"

	"github.com/dbcove/dbcove/internal/catalog"
	"github.com/dbcove/dbcove/internal/database"
	"github.com/dbcove/dbcove/internal/errs"
)

// ObjectType names a synthesizable schema object category.
type ObjectType string

const (
	ObjectTable     ObjectType = "table"
	ObjectView      ObjectType = "view"
	ObjectProcedure ObjectType = "procedure"
	ObjectFunction  ObjectType = "function"
	ObjectTrigger   ObjectType = "trigger"
	ObjectIndex     ObjectType = "index"
	ObjectSequence  ObjectType = "sequence"
	ObjectUser      ObjectType = "user"
)

// Document is a synthesized DDL text. It is deterministic for a given
// catalog snapshot and never mutated once produced, so callers may cache
// it by (connection, object type, object name, snapshot version).
type Document struct {
	ObjectType ObjectType `json:"objectType"`
	Name       string     `json:"name"`
	SQL        string     `json:"sql"`
}

// Synthesizer builds DDL documents from catalog metadata. Read-only by
// construction: it issues no statement that is not in the fixed
// introspection catalog.
type Synthesizer struct {
	reader  *catalog.Reader
	engines catalog.EngineSource
}

// NewSynthesizer creates a Synthesizer over reader and engines.
func NewSynthesizer(reader *catalog.Reader, engines catalog.EngineSource) *Synthesizer {
	return &Synthesizer{reader: reader, engines: engines}
}

func (s *Synthesizer) dialect(id string) (dialect, error) {
	engine, err := s.engines.EngineOf(id)
	if err != nil {
		return nil, err
	}
	return dialectFor(engine)
}

// Synthesize reconstructs the DDL for one named object. Fails with
// NotFound when the object does not exist in metadata. Failures never
// yield a half-written document.
func (s *Synthesizer) Synthesize(ctx context.Context, id string, typ ObjectType, name string) (*Document, error) {
	d, err := s.dialect(id)
	if err != nil {
		return nil, err
	}

	name = catalog.NormalizeName(name)

	var sql string
	switch typ {
	case ObjectTable:
		sql, err = s.tableDDL(ctx, d, id, name)
	case ObjectView:
		sql, err = s.viewDDL(ctx, d, id, name)
	case ObjectProcedure:
		sql, err = s.procedureDDL(ctx, d, id, name)
	case ObjectFunction:
		sql, err = s.functionDDL(ctx, d, id, name)
	case ObjectTrigger:
		sql, err = s.triggerDDL(ctx, d, id, name)
	case ObjectIndex:
		sql, err = s.indexDDL(ctx, d, id, name)
	case ObjectSequence:
		sql, err = s.sequenceDDL(ctx, d, id, name)
	case ObjectUser:
		sql, err = s.userDDL(ctx, d, id, name)
	default:
		return nil, errs.Newf(errs.ErrKindInvalidConfig, "unknown object type %q", typ)
	}
	if err != nil {
		return nil, err
	}

	return &Document{ObjectType: typ, Name: name, SQL: sql}, nil
}

// tableDDL assembles CREATE TABLE plus the table's non-system secondary
// indexes as separate statements.
func (s *Synthesizer) tableDDL(ctx context.Context, d dialect, id, table string) (string, error) {
	cols, err := s.reader.TableColumns(ctx, id, table)
	if err != nil {
		return "", err
	}
	if len(cols) == 0 {
		return "", errs.Newf(errs.ErrKindNotFound, "table %q not found", table)
	}

	lines := make([]string, 0, len(cols)+2)
	for _, col := range cols {
		def, err := d.columnDef(col)
		if err != nil {
			return "", err
		}
		lines = append(lines, "  "+def)
	}

	constraints, constraintIndexes, err := s.constraintClauses(ctx, d, id, table)
	if err != nil {
		return "", err
	}
	lines = append(lines, constraints...)

	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE %s (\n", quote(table))
	sb.WriteString(strings.Join(lines, ",\n"))
	sb.WriteString("\n);")

	indexStmts, err := s.secondaryIndexes(ctx, d, id, table, constraintIndexes)
	if err != nil {
		return "", err
	}
	for _, stmt := range indexStmts {
		sb.WriteString("\n\n")
		sb.WriteString(stmt)
	}

	return sb.String(), nil
}

// constraintClauses re-emits primary-key and unique constraints as named,
// parenthesized column lists in column-position order. It also reports
// the backing index names so secondary-index emission can skip them.
func (s *Synthesizer) constraintClauses(ctx context.Context, d dialect, id, table string) ([]string, map[string]bool, error) {
	rows, err := s.reader.TableConstraints(ctx, id, table)
	if err != nil {
		return nil, nil, err
	}

	backing := make(map[string]bool)
	var primary []string
	var uniques []string
	uniqueN := 0

	for _, row := range rows {
		ctype := strings.ToUpper(row.Str("CONSTRAINT_TYPE"))
		if ctype != "PRIMARY KEY" && ctype != "UNIQUE" {
			continue
		}

		indexName := row.Str("INDEX_NAME")
		if indexName != "" {
			backing[indexName] = true
		}

		segs, err := s.reader.IndexColumns(ctx, id, indexName)
		if err != nil {
			return nil, nil, err
		}
		if len(segs) == 0 {
			continue
		}

		name := row.Str("CONSTRAINT_NAME")
		if ctype == "PRIMARY KEY" {
			if name == "" || d.generatedName(name) {
				name = "PK_" + table
			}
			primary = append(primary,
				fmt.Sprintf("  CONSTRAINT %s PRIMARY KEY (%s)", quote(name), quoteList(segs)))
		} else {
			uniqueN++
			if name == "" || d.generatedName(name) {
				name = fmt.Sprintf("UK_%s_%d", table, uniqueN)
			}
			uniques = append(uniques,
				fmt.Sprintf("  CONSTRAINT %s UNIQUE (%s)", quote(name), quoteList(segs)))
		}
	}

	return append(primary, uniques...), backing, nil
}

// secondaryIndexes emits CREATE [UNIQUE] INDEX statements for every
// non-system index not backing a constraint.
func (s *Synthesizer) secondaryIndexes(ctx context.Context, d dialect, id, table string, backing map[string]bool) ([]string, error) {
	rows, err := s.reader.TableIndexes(ctx, id, table)
	if err != nil {
		return nil, err
	}

	var stmts []string
	for _, row := range rows {
		name := row.Str("NAME")
		if name == "" || backing[name] || d.systemIndex(name, row) {
			continue
		}
		segs, err := s.reader.IndexColumns(ctx, id, name)
		if err != nil {
			return nil, err
		}
		if len(segs) == 0 {
			continue
		}
		unique := ""
		if row.Bool("UNIQUE_FLAG") {
			unique = "UNIQUE "
		}
		stmts = append(stmts, fmt.Sprintf("CREATE %sINDEX %s ON %s (%s);",
			unique, quote(name), quote(table), quoteList(segs)))
	}
	return stmts, nil
}

func (s *Synthesizer) viewDDL(ctx context.Context, d dialect, id, name string) (string, error) {
	rows, err := s.reader.ViewSource(ctx, id, name)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", errs.Newf(errs.ErrKindNotFound, "view %q not found", name)
	}
	return d.viewDDL(name, rows[0].Str("SOURCE")), nil
}

func (s *Synthesizer) procedureDDL(ctx context.Context, d dialect, id, name string) (string, error) {
	rows, err := s.reader.ProcedureSource(ctx, id, name)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", errs.Newf(errs.ErrKindNotFound, "procedure %q not found", name)
	}
	params, err := s.reader.RoutineParams(ctx, id, name)
	if err != nil {
		// Parameter metadata is best-effort; the header degrades to an
		// empty list rather than failing the synthesis.
		params = nil
	}
	return d.procedureDDL(name, rows[0].Str("SOURCE"), params), nil
}

func (s *Synthesizer) functionDDL(ctx context.Context, d dialect, id, name string) (string, error) {
	rows, err := s.reader.FunctionSource(ctx, id, name)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", errs.Newf(errs.ErrKindNotFound, "function %q not found", name)
	}
	params, err := s.reader.RoutineParams(ctx, id, name)
	if err != nil {
		params = nil
	}
	return d.functionDDL(name, rows[0].Str("SOURCE"), params), nil
}

func (s *Synthesizer) triggerDDL(ctx context.Context, d dialect, id, name string) (string, error) {
	rows, err := s.reader.TriggerSource(ctx, id, name)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", errs.Newf(errs.ErrKindNotFound, "trigger %q not found", name)
	}
	return d.triggerDDL(name, rows[0]), nil
}

func (s *Synthesizer) indexDDL(ctx context.Context, d dialect, id, name string) (string, error) {
	row, err := s.reader.FindIndex(ctx, id, name)
	if err != nil {
		return "", err
	}
	if row == nil {
		return "", errs.Newf(errs.ErrKindNotFound, "index %q not found", name)
	}
	segs, err := s.reader.IndexColumns(ctx, id, name)
	if err != nil {
		return "", err
	}
	unique := ""
	if row.Bool("UNIQUE_FLAG") {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX %s ON %s (%s);",
		unique, quote(name), quote(row.Str("RELATION_NAME")), quoteList(segs)), nil
}

func (s *Synthesizer) sequenceDDL(ctx context.Context, d dialect, id, name string) (string, error) {
	rows, err := s.reader.Sequence(ctx, id, name)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", errs.Newf(errs.ErrKindNotFound, "sequence %q not found", name)
	}
	return d.sequenceDDL(rows[0]), nil
}

func (s *Synthesizer) userDDL(ctx context.Context, d dialect, id, name string) (string, error) {
	rows, err := s.reader.User(ctx, id, name)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", errs.Newf(errs.ErrKindNotFound, "user %q not found", name)
	}
	return d.userDDL(rows[0]), nil
}

// --- shared helpers ---

func quote(name string) string {
	return database.QuoteIdent(name)
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quote(n)
	}
	return strings.Join(quoted, ", ")
}
