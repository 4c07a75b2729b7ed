package catalog

// Firebird introspection queries against the RDB$ system tables.
// All object-name parameters are bound; list queries take none.
var firebirdQueries = &querySet{
	tables: `
		SELECT TRIM(RDB$RELATION_NAME) AS NAME
		FROM RDB$RELATIONS
		WHERE RDB$VIEW_BLR IS NULL
		  AND COALESCE(RDB$SYSTEM_FLAG, 0) = 0
		ORDER BY RDB$RELATION_NAME`,

	views: `
		SELECT TRIM(RDB$RELATION_NAME) AS NAME
		FROM RDB$RELATIONS
		WHERE RDB$VIEW_BLR IS NOT NULL
		  AND COALESCE(RDB$SYSTEM_FLAG, 0) = 0
		ORDER BY RDB$RELATION_NAME`,

	procedures: `
		SELECT TRIM(RDB$PROCEDURE_NAME) AS NAME
		FROM RDB$PROCEDURES
		WHERE COALESCE(RDB$SYSTEM_FLAG, 0) = 0
		ORDER BY RDB$PROCEDURE_NAME`,

	functions: `
		SELECT TRIM(RDB$FUNCTION_NAME) AS NAME
		FROM RDB$FUNCTIONS
		WHERE COALESCE(RDB$SYSTEM_FLAG, 0) = 0
		ORDER BY RDB$FUNCTION_NAME`,

	triggers: `
		SELECT TRIM(RDB$TRIGGER_NAME) AS NAME,
		       TRIM(RDB$RELATION_NAME) AS RELATION_NAME,
		       RDB$TRIGGER_TYPE AS TRIGGER_TYPE,
		       RDB$TRIGGER_SEQUENCE AS TRIGGER_SEQUENCE,
		       COALESCE(RDB$TRIGGER_INACTIVE, 0) AS TRIGGER_INACTIVE
		FROM RDB$TRIGGERS
		WHERE COALESCE(RDB$SYSTEM_FLAG, 0) = 0
		ORDER BY RDB$TRIGGER_NAME`,

	sequences: `
		SELECT TRIM(RDB$GENERATOR_NAME) AS NAME
		FROM RDB$GENERATORS
		WHERE COALESCE(RDB$SYSTEM_FLAG, 0) = 0
		ORDER BY RDB$GENERATOR_NAME`,

	packages: `
		SELECT TRIM(RDB$PACKAGE_NAME) AS NAME
		FROM RDB$PACKAGES
		WHERE COALESCE(RDB$SYSTEM_FLAG, 0) = 0
		ORDER BY RDB$PACKAGE_NAME`,

	users: `
		SELECT TRIM(SEC$USER_NAME) AS NAME,
		       TRIM(SEC$FIRST_NAME) AS FIRST_NAME,
		       TRIM(SEC$LAST_NAME) AS LAST_NAME,
		       SEC$ADMIN AS IS_ADMIN
		FROM SEC$USERS
		ORDER BY SEC$USER_NAME`,

	// Firebird has no schema namespaces; the single implicit schema is
	// reported so callers see a uniform shape across dialects.
	schemas: `
		SELECT TRIM(RDB$CHARACTER_SET_NAME) AS CHARACTER_SET,
		       'DEFAULT' AS NAME
		FROM RDB$DATABASE`,

	allIndexes: `
		SELECT TRIM(RDB$INDEX_NAME) AS NAME,
		       TRIM(RDB$RELATION_NAME) AS RELATION_NAME,
		       COALESCE(RDB$UNIQUE_FLAG, 0) AS UNIQUE_FLAG,
		       COALESCE(RDB$INDEX_INACTIVE, 0) AS INDEX_INACTIVE
		FROM RDB$INDICES
		WHERE COALESCE(RDB$SYSTEM_FLAG, 0) = 0
		ORDER BY RDB$INDEX_NAME`,

	columns: `
		SELECT TRIM(rf.RDB$FIELD_NAME) AS FIELD_NAME,
		       f.RDB$FIELD_TYPE AS FIELD_TYPE,
		       COALESCE(f.RDB$FIELD_SUB_TYPE, 0) AS FIELD_SUB_TYPE,
		       f.RDB$FIELD_LENGTH AS FIELD_LENGTH,
		       f.RDB$CHARACTER_LENGTH AS CHARACTER_LENGTH,
		       f.RDB$FIELD_PRECISION AS FIELD_PRECISION,
		       f.RDB$FIELD_SCALE AS FIELD_SCALE,
		       COALESCE(rf.RDB$NULL_FLAG, 0) AS NULL_FLAG,
		       rf.RDB$DEFAULT_SOURCE AS DEFAULT_SOURCE,
		       f.RDB$DEFAULT_SOURCE AS DOMAIN_DEFAULT_SOURCE,
		       rf.RDB$FIELD_POSITION AS FIELD_POSITION
		FROM RDB$RELATION_FIELDS rf
		JOIN RDB$FIELDS f ON f.RDB$FIELD_NAME = rf.RDB$FIELD_SOURCE
		WHERE rf.RDB$RELATION_NAME = ?
		ORDER BY rf.RDB$FIELD_POSITION`,

	constraints: `
		SELECT TRIM(rc.RDB$CONSTRAINT_NAME) AS CONSTRAINT_NAME,
		       TRIM(rc.RDB$CONSTRAINT_TYPE) AS CONSTRAINT_TYPE,
		       TRIM(rc.RDB$INDEX_NAME) AS INDEX_NAME
		FROM RDB$RELATION_CONSTRAINTS rc
		WHERE rc.RDB$RELATION_NAME = ?
		ORDER BY rc.RDB$CONSTRAINT_NAME`,

	indexes: `
		SELECT TRIM(RDB$INDEX_NAME) AS NAME,
		       COALESCE(RDB$UNIQUE_FLAG, 0) AS UNIQUE_FLAG,
		       COALESCE(RDB$INDEX_INACTIVE, 0) AS INDEX_INACTIVE
		FROM RDB$INDICES
		WHERE RDB$RELATION_NAME = ?
		ORDER BY RDB$INDEX_NAME`,

	// Segment query: ordered member columns of one index (or the index
	// backing one constraint).
	indexSegments: `
		SELECT TRIM(RDB$FIELD_NAME) AS FIELD_NAME,
		       RDB$FIELD_POSITION AS FIELD_POSITION
		FROM RDB$INDEX_SEGMENTS
		WHERE RDB$INDEX_NAME = ?
		ORDER BY RDB$FIELD_POSITION`,

	viewSource: `
		SELECT TRIM(RDB$RELATION_NAME) AS NAME,
		       RDB$VIEW_SOURCE AS SOURCE
		FROM RDB$RELATIONS
		WHERE RDB$RELATION_NAME = ?`,

	procedureSource: `
		SELECT TRIM(RDB$PROCEDURE_NAME) AS NAME,
		       RDB$PROCEDURE_SOURCE AS SOURCE
		FROM RDB$PROCEDURES
		WHERE RDB$PROCEDURE_NAME = ?`,

	functionSource: `
		SELECT TRIM(RDB$FUNCTION_NAME) AS NAME,
		       RDB$FUNCTION_SOURCE AS SOURCE
		FROM RDB$FUNCTIONS
		WHERE RDB$FUNCTION_NAME = ?`,

	triggerSource: `
		SELECT TRIM(RDB$TRIGGER_NAME) AS NAME,
		       TRIM(RDB$RELATION_NAME) AS RELATION_NAME,
		       RDB$TRIGGER_TYPE AS TRIGGER_TYPE,
		       RDB$TRIGGER_SEQUENCE AS TRIGGER_SEQUENCE,
		       COALESCE(RDB$TRIGGER_INACTIVE, 0) AS TRIGGER_INACTIVE,
		       RDB$TRIGGER_SOURCE AS SOURCE
		FROM RDB$TRIGGERS
		WHERE RDB$TRIGGER_NAME = ?`,

	sequence: `
		SELECT TRIM(RDB$GENERATOR_NAME) AS NAME,
		       COALESCE(RDB$INITIAL_VALUE, 0) AS INITIAL_VALUE,
		       COALESCE(RDB$GENERATOR_INCREMENT, 1) AS INCREMENT
		FROM RDB$GENERATORS
		WHERE RDB$GENERATOR_NAME = ?`,

	user: `
		SELECT TRIM(SEC$USER_NAME) AS NAME,
		       TRIM(SEC$FIRST_NAME) AS FIRST_NAME,
		       TRIM(SEC$LAST_NAME) AS LAST_NAME,
		       SEC$ADMIN AS IS_ADMIN
		FROM SEC$USERS
		WHERE SEC$USER_NAME = ?`,

	routineParams: `
		SELECT TRIM(pp.RDB$PARAMETER_NAME) AS PARAMETER_NAME,
		       pp.RDB$PARAMETER_TYPE AS PARAMETER_DIRECTION,
		       pp.RDB$PARAMETER_NUMBER AS PARAMETER_NUMBER,
		       f.RDB$FIELD_TYPE AS FIELD_TYPE,
		       COALESCE(f.RDB$FIELD_SUB_TYPE, 0) AS FIELD_SUB_TYPE,
		       f.RDB$FIELD_LENGTH AS FIELD_LENGTH,
		       f.RDB$CHARACTER_LENGTH AS CHARACTER_LENGTH,
		       f.RDB$FIELD_PRECISION AS FIELD_PRECISION,
		       f.RDB$FIELD_SCALE AS FIELD_SCALE
		FROM RDB$PROCEDURE_PARAMETERS pp
		JOIN RDB$FIELDS f ON f.RDB$FIELD_NAME = pp.RDB$FIELD_SOURCE
		WHERE pp.RDB$PROCEDURE_NAME = ?
		ORDER BY pp.RDB$PARAMETER_TYPE, pp.RDB$PARAMETER_NUMBER`,
}
