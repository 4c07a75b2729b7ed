package ddl

import (
	"strconv"
	"strings"
)

// defaultKeywords are engine time/date/context tokens passed through
// unquoted, in canonical upper case.
var defaultKeywords = map[string]string{
	"NULL":               "NULL",
	"CURRENT_TIMESTAMP":  "CURRENT_TIMESTAMP",
	"CURRENT_DATE":       "CURRENT_DATE",
	"CURRENT_TIME":       "CURRENT_TIME",
	"CURRENT_USER":       "CURRENT_USER",
	"CURRENT_ROLE":       "CURRENT_ROLE",
	"USER":               "USER",
	"NOW":                "NOW",
	"'NOW'":              "'NOW'",
	"TODAY":              "TODAY",
	"GETDATE()":          "GETDATE()",
	"GETUTCDATE()":       "GETUTCDATE()",
	"SYSDATETIME()":      "SYSDATETIME()",
	"NEWID()":            "NEWID()",
	"GEN_UUID()":         "GEN_UUID()",
}

// formatDefault turns stored default-source text into a canonical
// "DEFAULT <literal>" clause for a column of the given category.
// truth renders the engine's truth token for booleans. Returns "" when
// raw holds no usable default.
func formatDefault(raw string, cat typeCategory, truth func(bool) string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}

	// Firebird stores the full "DEFAULT <expr>" source text.
	if len(v) >= 7 && strings.EqualFold(v[:7], "DEFAULT") {
		v = strings.TrimSpace(v[7:])
	}
	// SQL Server wraps definitions in parentheses, sometimes twice.
	v = stripParens(v)
	if v == "" {
		return ""
	}

	if kw, ok := defaultKeywords[strings.ToUpper(v)]; ok {
		return "DEFAULT " + kw
	}

	bare := stripQuotes(v)

	switch cat {
	case catBoolean:
		switch strings.ToUpper(bare) {
		case "TRUE", "1", "T", "Y", "YES":
			return "DEFAULT " + truth(true)
		case "FALSE", "0", "F", "N", "NO":
			return "DEFAULT " + truth(false)
		}
		return "DEFAULT " + quoteLiteral(bare)
	case catNumeric:
		if _, err := strconv.ParseFloat(bare, 64); err == nil {
			return "DEFAULT " + bare
		}
		return "DEFAULT " + quoteLiteral(bare)
	case catDateTime:
		return "DEFAULT " + quoteLiteral(bare)
	default:
		return "DEFAULT " + quoteLiteral(bare)
	}
}

// stripParens removes balanced wrapping parentheses.
func stripParens(v string) string {
	for len(v) >= 2 && v[0] == '(' && v[len(v)-1] == ')' && balanced(v[1:len(v)-1]) {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	return v
}

func balanced(v string) bool {
	depth := 0
	for _, r := range v {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// stripQuotes removes one layer of wrapping single quotes, undoing the
// embedded-quote doubling.
func stripQuotes(v string) string {
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		inner := v[1 : len(v)-1]
		return strings.ReplaceAll(inner, "''", "'")
	}
	return v
}

// quoteLiteral single-quotes a string literal, doubling embedded quotes.
func quoteLiteral(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
