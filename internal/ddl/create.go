package ddl

import (
	"fmt"
	"strings"

	"github.com/dbcove/dbcove/internal/database"
	"github.com/dbcove/dbcove/internal/errs"
)

// ColumnSpec is one caller-supplied column definition for table creation.
type ColumnSpec struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	NotNull  bool   `json:"notNull"`
	Default  string `json:"default,omitempty"`
	Identity bool   `json:"identity,omitempty"`
}

// TableSpec describes a new table. Identifiers are validated before
// interpolation; types and defaults pass through as written so dialect
// type syntax stays in the caller's hands.
type TableSpec struct {
	Name       string       `json:"name"`
	Columns    []ColumnSpec `json:"columns"`
	PrimaryKey []string     `json:"primaryKey,omitempty"`
}

// ViewSpec describes a new view over a caller-supplied SELECT body.
type ViewSpec struct {
	Name   string `json:"name"`
	Select string `json:"select"`
}

// validTypeText admits type expressions like "NVARCHAR(40)" or
// "DECIMAL(10,2)" while rejecting anything that could escape the clause.
func validTypeText(t string) bool {
	if t == "" || len(t) > 128 {
		return false
	}
	for _, r := range t {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '(' || r == ')' || r == ',' || r == ' ' || r == '_':
		default:
			return false
		}
	}
	return true
}

// BuildCreateTable renders a CREATE TABLE statement from spec. The
// statement is returned for the caller to run through the executor; no
// connection is touched here.
func BuildCreateTable(engine database.Engine, spec TableSpec) (string, error) {
	if err := database.CheckIdent("table", spec.Name); err != nil {
		return "", err
	}
	if len(spec.Columns) == 0 {
		return "", errs.New(errs.ErrKindInvalidConfig, "table needs at least one column")
	}

	lines := make([]string, 0, len(spec.Columns)+1)
	for _, col := range spec.Columns {
		if err := database.CheckIdent("column", col.Name); err != nil {
			return "", err
		}
		if !validTypeText(col.Type) {
			return "", errs.Newf(errs.ErrKindInvalidConfig, "invalid column type %q", col.Type)
		}

		var sb strings.Builder
		sb.WriteString(quote(col.Name))
		sb.WriteString(" ")
		sb.WriteString(strings.ToUpper(col.Type))
		if col.Identity && engine == database.EngineMSSQL {
			sb.WriteString(" IDENTITY(1,1)")
		}
		if col.Default != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(col.Default)
		}
		if col.NotNull {
			sb.WriteString(" NOT NULL")
		}
		lines = append(lines, "  "+sb.String())
	}

	if len(spec.PrimaryKey) > 0 {
		for _, col := range spec.PrimaryKey {
			if err := database.CheckIdent("primary key column", col); err != nil {
				return "", err
			}
		}
		lines = append(lines, fmt.Sprintf("  CONSTRAINT %s PRIMARY KEY (%s)",
			quote("PK_"+spec.Name), quoteList(spec.PrimaryKey)))
	}

	return fmt.Sprintf("CREATE TABLE %s (\n%s\n);",
		quote(spec.Name), strings.Join(lines, ",\n")), nil
}

// BuildCreateView renders a CREATE VIEW statement. The SELECT body is
// the caller's responsibility; only the view name is validated.
func BuildCreateView(spec ViewSpec) (string, error) {
	if err := database.CheckIdent("view", spec.Name); err != nil {
		return "", err
	}
	body := strings.TrimSpace(spec.Select)
	if body == "" {
		return "", errs.New(errs.ErrKindInvalidConfig, "view needs a SELECT body")
	}
	return fmt.Sprintf("CREATE VIEW %s AS\n%s;", quote(spec.Name), body), nil
}

func dialectFor(engine database.Engine) (dialect, error) {
	switch engine {
	case database.EngineFirebird:
		return firebirdDialect{}, nil
	case database.EngineMSSQL:
		return mssqlDialect{}, nil
	default:
		return nil, errs.Newf(errs.ErrKindInvalidConfig, "no DDL dialect for engine %q", engine)
	}
}
