package ddl

import "github.com/dbcove/dbcove/internal/catalog"

// typeCategory buckets a column's translated type for default-value
// re-quoting.
type typeCategory int

const (
	catOther typeCategory = iota
	catString
	catNumeric
	catBoolean
	catDateTime
)

// dialect is the per-engine variant set behind the synthesizer. Each
// method consumes raw catalog rows and emits dialect-correct DDL text.
type dialect interface {
	// columnDef renders one column clause: name, translated type,
	// re-quoted default, nullability.
	columnDef(row catalog.Row) (string, error)

	// generatedName reports whether a constraint name is an
	// implementation-generated one that should be replaced by a
	// PK_/UK_ fallback.
	generatedName(name string) bool

	// systemIndex reports whether an index is system-generated (reserved
	// name prefix or primary-key backing) and must be suppressed from
	// table DDL.
	systemIndex(name string, row catalog.Row) bool

	viewDDL(name, source string) string
	procedureDDL(name, source string, params []catalog.Row) string
	functionDDL(name, source string, params []catalog.Row) string
	triggerDDL(name string, row catalog.Row) string
	sequenceDDL(row catalog.Row) string
	userDDL(row catalog.Row) string
}

// placeholderBody is emitted when only structural metadata exists for a
// routine: synthesis degrades gracefully to partial output instead of
// erroring.
const placeholderBody = "/* source code not available in catalog metadata */"

// placeholderPassword stands in for credential material, which is never
// stored in catalog metadata and must never be fabricated.
const placeholderPassword = "CHANGE_ME"
