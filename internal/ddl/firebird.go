package ddl

import (
	"fmt"
	"strings"

	"github.com/dbcove/dbcove/internal/catalog"
)

// firebirdDialect synthesizes Firebird DDL from RDB$ catalog rows.
// Column types arrive as numeric RDB$FIELD_TYPE codes.
type firebirdDialect struct{}

// firebirdTypeNames is the fixed lookup table from RDB$FIELD_TYPE codes
// to canonical SQL keywords.
var firebirdTypeNames = map[int64]string{
	7:   "SMALLINT",
	8:   "INTEGER",
	10:  "FLOAT",
	12:  "DATE",
	13:  "TIME",
	14:  "CHAR",
	16:  "BIGINT",
	23:  "BOOLEAN",
	24:  "DECFLOAT(16)",
	25:  "DECFLOAT(34)",
	26:  "INT128",
	27:  "DOUBLE PRECISION",
	35:  "TIMESTAMP",
	37:  "VARCHAR",
	261: "BLOB",
}

// typeFallback is the safe textual mapping for an unrecognized type code.
const firebirdTypeFallback = "VARCHAR(255)"

// columnType translates one column row into its full type text, applying
// subtype overrides for exact numerics and sizing for character types.
func (firebirdDialect) columnType(row catalog.Row) string {
	code := row.Int("FIELD_TYPE", "RDB$FIELD_TYPE")
	subType := row.Int("FIELD_SUB_TYPE", "RDB$FIELD_SUB_TYPE")
	precision, hasPrecision := row.IntOK("FIELD_PRECISION", "RDB$FIELD_PRECISION")
	scale := -row.Int("FIELD_SCALE", "RDB$FIELD_SCALE") // stored negated

	// Exact numerics are stored as integer types with a subtype marker.
	if code == 7 || code == 8 || code == 16 || code == 26 {
		switch subType {
		case 1:
			if hasPrecision && precision > 0 {
				return fmt.Sprintf("NUMERIC(%d,%d)", precision, scale)
			}
		case 2:
			if hasPrecision && precision > 0 {
				return fmt.Sprintf("DECIMAL(%d,%d)", precision, scale)
			}
		}
	}

	base, ok := firebirdTypeNames[code]
	if !ok {
		return firebirdTypeFallback
	}

	switch code {
	case 14, 37: // CHAR, VARCHAR
		length := row.Int("CHARACTER_LENGTH", "RDB$CHARACTER_LENGTH")
		if length == 0 {
			length = row.Int("FIELD_LENGTH", "RDB$FIELD_LENGTH")
		}
		if length > 0 {
			return fmt.Sprintf("%s(%d)", base, length)
		}
		return base
	case 261: // BLOB
		if subType == 1 {
			return "BLOB SUB_TYPE TEXT"
		}
		return base
	default:
		return base
	}
}

func (firebirdDialect) columnCategory(row catalog.Row) typeCategory {
	code := row.Int("FIELD_TYPE", "RDB$FIELD_TYPE")
	switch code {
	case 14, 37:
		return catString
	case 7, 8, 10, 16, 24, 25, 26, 27:
		return catNumeric
	case 23:
		return catBoolean
	case 12, 13, 35:
		return catDateTime
	case 261:
		if row.Int("FIELD_SUB_TYPE", "RDB$FIELD_SUB_TYPE") == 1 {
			return catString
		}
		return catOther
	default:
		return catOther
	}
}

// truth renders Firebird's integer truth literal. Boolean columns in this
// catalog lineage are SMALLINT-mapped, so defaults normalize to 1/0.
func (firebirdDialect) truth(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func (d firebirdDialect) columnDef(row catalog.Row) (string, error) {
	name := row.Str("FIELD_NAME", "RDB$FIELD_NAME", "NAME")

	var sb strings.Builder
	sb.WriteString(quote(name))
	sb.WriteString(" ")
	sb.WriteString(d.columnType(row))

	// Column-level defaults win over domain-level ones.
	source := row.Str("DEFAULT_SOURCE", "RDB$DEFAULT_SOURCE")
	if source == "" {
		source = row.Str("DOMAIN_DEFAULT_SOURCE")
	}
	if clause := formatDefault(source, d.columnCategory(row), d.truth); clause != "" {
		sb.WriteString(" ")
		sb.WriteString(clause)
	}

	if row.Bool("NULL_FLAG", "RDB$NULL_FLAG") {
		sb.WriteString(" NOT NULL")
	}
	return sb.String(), nil
}

// generatedName: Firebird auto-names constraints INTEG_<n>.
func (firebirdDialect) generatedName(name string) bool {
	return strings.HasPrefix(strings.ToUpper(name), "INTEG_")
}

// systemIndex: indexes carrying the implementation-reserved RDB$ prefix
// are engine-generated and suppressed from table DDL.
func (firebirdDialect) systemIndex(name string, _ catalog.Row) bool {
	return strings.HasPrefix(strings.ToUpper(name), "RDB$")
}

func (firebirdDialect) viewDDL(name, source string) string {
	body := strings.TrimSpace(source)
	if body == "" {
		body = placeholderBody
	}
	return fmt.Sprintf("CREATE VIEW %s AS\n%s;", quote(name), body)
}

// routineParamList renders "(NAME TYPE, …)" for the given parameter
// direction (0 input, 1 output in RDB$PARAMETER_TYPE terms).
func (d firebirdDialect) routineParamList(params []catalog.Row, direction int64) string {
	var parts []string
	for _, p := range params {
		if p.Int("PARAMETER_DIRECTION", "RDB$PARAMETER_TYPE") != direction {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s",
			quote(p.Str("PARAMETER_NAME", "RDB$PARAMETER_NAME")), d.columnType(p)))
	}
	return strings.Join(parts, ", ")
}

func (d firebirdDialect) procedureDDL(name, source string, params []catalog.Row) string {
	body := strings.TrimSpace(source)
	if body == "" {
		body = "BEGIN\n  " + placeholderBody + "\nEND"
	}

	var sb strings.Builder
	sb.WriteString("SET TERM ^ ;\n\n")
	fmt.Fprintf(&sb, "CREATE PROCEDURE %s (%s)", quote(name), d.routineParamList(params, 0))
	if out := d.routineParamList(params, 1); out != "" {
		fmt.Fprintf(&sb, "\nRETURNS (%s)", out)
	}
	sb.WriteString("\nAS\n")
	sb.WriteString(body)
	sb.WriteString("^\n\nSET TERM ; ^")
	return sb.String()
}

func (d firebirdDialect) functionDDL(name, source string, params []catalog.Row) string {
	body := strings.TrimSpace(source)
	if body == "" {
		body = "BEGIN\n  " + placeholderBody + "\nEND"
	}

	returns := "VARCHAR(255)"
	for _, p := range params {
		if p.Int("PARAMETER_DIRECTION", "RDB$PARAMETER_TYPE") == 1 {
			returns = d.columnType(p)
			break
		}
	}

	var sb strings.Builder
	sb.WriteString("SET TERM ^ ;\n\n")
	fmt.Fprintf(&sb, "CREATE FUNCTION %s (%s)\nRETURNS %s",
		quote(name), d.routineParamList(params, 0), returns)
	sb.WriteString("\nAS\n")
	sb.WriteString(body)
	sb.WriteString("^\n\nSET TERM ; ^")
	return sb.String()
}

func (d firebirdDialect) triggerDDL(name string, row catalog.Row) string {
	body := strings.TrimSpace(row.Str("SOURCE"))
	if body == "" {
		body = "BEGIN\n  " + placeholderBody + "\nEND"
	}

	state := "ACTIVE"
	if row.Bool("TRIGGER_INACTIVE") {
		state = "INACTIVE"
	}

	var sb strings.Builder
	sb.WriteString("SET TERM ^ ;\n\n")
	fmt.Fprintf(&sb, "CREATE TRIGGER %s FOR %s\n%s %s POSITION %d\nAS\n",
		quote(name), quote(row.Str("RELATION_NAME")),
		state, firebirdTriggerEvent(row.Int("TRIGGER_TYPE")),
		row.Int("TRIGGER_SEQUENCE"))
	sb.WriteString(body)
	sb.WriteString("^\n\nSET TERM ; ^")
	return sb.String()
}

// firebirdTriggerEvent decodes the packed RDB$TRIGGER_TYPE action
// encoding: bit 0 selects BEFORE/AFTER, successive 2-bit slots of
// (type+1) name up to three DML actions.
func firebirdTriggerEvent(t int64) string {
	if t <= 0 {
		return "BEFORE INSERT"
	}

	when := "AFTER"
	if t&1 == 1 {
		when = "BEFORE"
	}

	names := [4]string{"", "INSERT", "UPDATE", "DELETE"}
	var actions []string
	for i := uint(0); i < 3; i++ {
		a := ((t + 1) >> (2*i + 1)) & 3
		if a == 0 {
			break
		}
		actions = append(actions, names[a])
	}
	if len(actions) == 0 {
		actions = append(actions, "INSERT")
	}
	return when + " " + strings.Join(actions, " OR ")
}

func (firebirdDialect) sequenceDDL(row catalog.Row) string {
	name := row.Str("NAME")
	initial := row.Int("INITIAL_VALUE")
	increment := row.Int("INCREMENT")
	if increment == 0 {
		increment = 1
	}
	return fmt.Sprintf("CREATE SEQUENCE %s START WITH %d INCREMENT BY %d;",
		quote(name), initial, increment)
}

func (firebirdDialect) userDDL(row catalog.Row) string {
	name := row.Str("NAME")

	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE USER %s PASSWORD '%s'", name, placeholderPassword)
	if first := row.Str("FIRST_NAME"); first != "" {
		fmt.Fprintf(&sb, "\n  FIRSTNAME '%s'", first)
	}
	if last := row.Str("LAST_NAME"); last != "" {
		fmt.Fprintf(&sb, "\n  LASTNAME '%s'", last)
	}
	if row.Bool("IS_ADMIN") {
		sb.WriteString("\n  GRANT ADMIN ROLE")
	}
	sb.WriteString(";")
	return sb.String()
}
