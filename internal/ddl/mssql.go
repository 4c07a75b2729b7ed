package ddl

import (
	"fmt"
	"strings"

	"github.com/dbcove/dbcove/internal/catalog"
)

// mssqlDialect synthesizes Transact-SQL DDL. Unlike the Firebird catalog,
// sys.types already yields symbolic type names and sys.sql_modules stores
// the complete original definition of views, routines and triggers, so
// those objects round-trip verbatim whenever the source survives.
type mssqlDialect struct{}

// columnType renders the full type text for one column or parameter row.
// max_length is in bytes, so UTF-16 types report twice their character
// count; -1 means MAX.
func (mssqlDialect) columnType(row catalog.Row) string {
	base := strings.ToUpper(row.Str("TYPE_NAME"))
	maxLength := row.Int("MAX_LENGTH")
	precision := row.Int("FIELD_PRECISION")
	scale := row.Int("FIELD_SCALE")

	switch base {
	case "NVARCHAR", "NCHAR":
		if maxLength == -1 {
			return base + "(MAX)"
		}
		return fmt.Sprintf("%s(%d)", base, maxLength/2)
	case "VARCHAR", "CHAR", "VARBINARY", "BINARY":
		if maxLength == -1 {
			return base + "(MAX)"
		}
		return fmt.Sprintf("%s(%d)", base, maxLength)
	case "DECIMAL", "NUMERIC":
		if precision > 0 {
			return fmt.Sprintf("%s(%d,%d)", base, precision, scale)
		}
		return base
	case "DATETIME2", "DATETIMEOFFSET", "TIME":
		return fmt.Sprintf("%s(%d)", base, scale)
	case "FLOAT":
		if precision > 0 && precision != 53 {
			return fmt.Sprintf("FLOAT(%d)", precision)
		}
		return base
	default:
		return base
	}
}

func (mssqlDialect) columnCategory(row catalog.Row) typeCategory {
	switch strings.ToUpper(row.Str("TYPE_NAME")) {
	case "CHAR", "VARCHAR", "NCHAR", "NVARCHAR", "TEXT", "NTEXT",
		"XML", "UNIQUEIDENTIFIER":
		return catString
	case "TINYINT", "SMALLINT", "INT", "BIGINT", "DECIMAL", "NUMERIC",
		"FLOAT", "REAL", "MONEY", "SMALLMONEY":
		return catNumeric
	case "BIT":
		return catBoolean
	case "DATE", "TIME", "DATETIME", "DATETIME2", "SMALLDATETIME",
		"DATETIMEOFFSET":
		return catDateTime
	default:
		return catOther
	}
}

func (mssqlDialect) truth(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func (d mssqlDialect) columnDef(row catalog.Row) (string, error) {
	name := row.Str("FIELD_NAME", "NAME")

	var sb strings.Builder
	sb.WriteString(quote(name))
	sb.WriteString(" ")
	sb.WriteString(d.columnType(row))

	if row.Bool("IS_IDENTITY") {
		sb.WriteString(" IDENTITY(1,1)")
	}
	if clause := formatDefault(row.Str("DEFAULT_SOURCE"), d.columnCategory(row), d.truth); clause != "" {
		sb.WriteString(" ")
		sb.WriteString(clause)
	}
	if !row.Bool("IS_NULLABLE") {
		sb.WriteString(" NOT NULL")
	}
	return sb.String(), nil
}

// generatedName: SQL Server auto-names key constraints PK__Table__hash
// and UQ__Table__hash.
func (mssqlDialect) generatedName(name string) bool {
	upper := strings.ToUpper(name)
	return strings.HasPrefix(upper, "PK__") || strings.HasPrefix(upper, "UQ__")
}

// systemIndex: primary-key backing indexes carry the is_primary_key
// catalog flag and never appear as standalone statements.
func (mssqlDialect) systemIndex(_ string, row catalog.Row) bool {
	return row.Bool("IS_PRIMARY_KEY")
}

// storedDefinition reports the trimmed module source when it is a usable
// standalone CREATE statement.
func storedDefinition(source string) (string, bool) {
	body := strings.TrimSpace(source)
	if body == "" {
		return "", false
	}
	return body, strings.HasPrefix(strings.ToUpper(body), "CREATE")
}

func (mssqlDialect) viewDDL(name, source string) string {
	if body, ok := storedDefinition(source); ok {
		return body
	}
	body := strings.TrimSpace(source)
	if body == "" {
		body = placeholderBody
	}
	return fmt.Sprintf("CREATE VIEW %s AS\n%s;", quote(name), body)
}

// routineParamList renders T-SQL parameters ("@x INT, @y NVARCHAR(20)").
// Parameter names already carry the @ sigil in sys.parameters.
func (d mssqlDialect) routineParamList(params []catalog.Row) string {
	var parts []string
	for _, p := range params {
		decl := p.Str("PARAMETER_NAME") + " " + d.columnType(p)
		if p.Bool("PARAMETER_DIRECTION") {
			decl += " OUTPUT"
		}
		parts = append(parts, decl)
	}
	return strings.Join(parts, ", ")
}

func (d mssqlDialect) procedureDDL(name, source string, params []catalog.Row) string {
	if body, ok := storedDefinition(source); ok {
		return body
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE PROCEDURE %s", quote(name))
	if list := d.routineParamList(params); list != "" {
		sb.WriteString(" " + list)
	}
	sb.WriteString("\nAS\nBEGIN\n  ")
	sb.WriteString(placeholderBody)
	sb.WriteString("\nEND;")
	return sb.String()
}

func (d mssqlDialect) functionDDL(name, source string, params []catalog.Row) string {
	if body, ok := storedDefinition(source); ok {
		return body
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE FUNCTION %s (%s)", quote(name), d.routineParamList(params))
	sb.WriteString("\nRETURNS NVARCHAR(MAX)\nAS\nBEGIN\n  ")
	sb.WriteString(placeholderBody)
	sb.WriteString("\nEND;")
	return sb.String()
}

func (mssqlDialect) triggerDDL(name string, row catalog.Row) string {
	if body, ok := storedDefinition(row.Str("SOURCE")); ok {
		if row.Bool("TRIGGER_INACTIVE") {
			body += fmt.Sprintf("\n\nDISABLE TRIGGER %s ON %s;",
				quote(name), quote(row.Str("RELATION_NAME")))
		}
		return body
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TRIGGER %s ON %s\nAFTER INSERT\nAS\nBEGIN\n  %s\nEND;",
		quote(name), quote(row.Str("RELATION_NAME")), placeholderBody)
	return sb.String()
}

func (mssqlDialect) sequenceDDL(row catalog.Row) string {
	increment := row.Int("INCREMENT")
	if increment == 0 {
		increment = 1
	}
	return fmt.Sprintf("CREATE SEQUENCE %s START WITH %d INCREMENT BY %d;",
		quote(row.Str("NAME")), row.Int("INITIAL_VALUE"), increment)
}

func (mssqlDialect) userDDL(row catalog.Row) string {
	name := row.Str("NAME")
	if strings.EqualFold(row.Str("PRINCIPAL_TYPE"), "WINDOWS_USER") {
		return fmt.Sprintf("CREATE USER %s FOR LOGIN %s;", quote(name), quote(name))
	}
	return fmt.Sprintf("CREATE USER %s WITH PASSWORD = '%s';", quote(name), placeholderPassword)
}
