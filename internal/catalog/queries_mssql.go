package catalog

// Transact-SQL introspection queries against the sys.* catalog views.
var mssqlQueries = &querySet{
	tables: `
		SELECT name AS NAME, SCHEMA_NAME(schema_id) AS SCHEMA_NAME
		FROM sys.tables
		WHERE is_ms_shipped = 0
		ORDER BY name`,

	views: `
		SELECT name AS NAME, SCHEMA_NAME(schema_id) AS SCHEMA_NAME
		FROM sys.views
		WHERE is_ms_shipped = 0
		ORDER BY name`,

	procedures: `
		SELECT name AS NAME, SCHEMA_NAME(schema_id) AS SCHEMA_NAME
		FROM sys.procedures
		WHERE is_ms_shipped = 0
		ORDER BY name`,

	functions: `
		SELECT name AS NAME, SCHEMA_NAME(schema_id) AS SCHEMA_NAME
		FROM sys.objects
		WHERE type IN ('FN', 'IF', 'TF')
		  AND is_ms_shipped = 0
		ORDER BY name`,

	triggers: `
		SELECT t.name AS NAME,
		       OBJECT_NAME(t.parent_id) AS RELATION_NAME,
		       t.is_disabled AS TRIGGER_INACTIVE
		FROM sys.triggers t
		WHERE t.is_ms_shipped = 0
		  AND t.parent_class = 1
		ORDER BY t.name`,

	sequences: `
		SELECT name AS NAME, SCHEMA_NAME(schema_id) AS SCHEMA_NAME
		FROM sys.sequences
		ORDER BY name`,

	// SQL Server has no package objects; the reader returns an empty set.
	packages: "",

	users: `
		SELECT name AS NAME, type_desc AS PRINCIPAL_TYPE
		FROM sys.database_principals
		WHERE type IN ('S', 'U')
		  AND name NOT IN ('dbo', 'guest', 'sys', 'INFORMATION_SCHEMA')
		ORDER BY name`,

	schemas: `
		SELECT s.name AS NAME, p.name AS OWNER
		FROM sys.schemas s
		JOIN sys.database_principals p ON p.principal_id = s.principal_id
		WHERE s.schema_id < 16384
		ORDER BY s.name`,

	allIndexes: `
		SELECT i.name AS NAME,
		       OBJECT_NAME(i.object_id) AS RELATION_NAME,
		       i.is_unique AS UNIQUE_FLAG,
		       i.is_primary_key AS IS_PRIMARY_KEY
		FROM sys.indexes i
		JOIN sys.tables t ON t.object_id = i.object_id
		WHERE i.name IS NOT NULL
		  AND t.is_ms_shipped = 0
		ORDER BY i.name`,

	columns: `
		SELECT c.name AS FIELD_NAME,
		       ty.name AS TYPE_NAME,
		       c.max_length AS MAX_LENGTH,
		       c.precision AS FIELD_PRECISION,
		       c.scale AS FIELD_SCALE,
		       c.is_nullable AS IS_NULLABLE,
		       c.is_identity AS IS_IDENTITY,
		       dc.definition AS DEFAULT_SOURCE,
		       c.column_id AS FIELD_POSITION
		FROM sys.columns c
		JOIN sys.types ty ON ty.user_type_id = c.user_type_id
		LEFT JOIN sys.default_constraints dc
		       ON dc.parent_object_id = c.object_id
		      AND dc.parent_column_id = c.column_id
		WHERE c.object_id = OBJECT_ID(@p1)
		ORDER BY c.column_id`,

	constraints: `
		SELECT kc.name AS CONSTRAINT_NAME,
		       CASE kc.type WHEN 'PK' THEN 'PRIMARY KEY' ELSE 'UNIQUE' END AS CONSTRAINT_TYPE,
		       i.name AS INDEX_NAME
		FROM sys.key_constraints kc
		JOIN sys.indexes i
		  ON i.object_id = kc.parent_object_id
		 AND i.index_id  = kc.unique_index_id
		WHERE kc.parent_object_id = OBJECT_ID(@p1)
		ORDER BY kc.name`,

	indexes: `
		SELECT i.name AS NAME,
		       i.is_unique AS UNIQUE_FLAG,
		       i.is_primary_key AS IS_PRIMARY_KEY
		FROM sys.indexes i
		WHERE i.object_id = OBJECT_ID(@p1)
		  AND i.name IS NOT NULL
		ORDER BY i.name`,

	// Segment query: ordered member columns of one index, resolved by
	// index name across the database.
	indexSegments: `
		SELECT c.name AS FIELD_NAME,
		       ic.key_ordinal AS FIELD_POSITION
		FROM sys.indexes i
		JOIN sys.index_columns ic
		  ON ic.object_id = i.object_id
		 AND ic.index_id  = i.index_id
		JOIN sys.columns c
		  ON c.object_id = ic.object_id
		 AND c.column_id = ic.column_id
		WHERE i.name = @p1
		  AND ic.key_ordinal > 0
		ORDER BY ic.key_ordinal`,

	viewSource: `
		SELECT o.name AS NAME, m.definition AS SOURCE
		FROM sys.objects o
		JOIN sys.sql_modules m ON m.object_id = o.object_id
		WHERE o.type = 'V'
		  AND o.name = @p1`,

	procedureSource: `
		SELECT o.name AS NAME, m.definition AS SOURCE
		FROM sys.objects o
		JOIN sys.sql_modules m ON m.object_id = o.object_id
		WHERE o.type = 'P'
		  AND o.name = @p1`,

	functionSource: `
		SELECT o.name AS NAME, m.definition AS SOURCE
		FROM sys.objects o
		JOIN sys.sql_modules m ON m.object_id = o.object_id
		WHERE o.type IN ('FN', 'IF', 'TF')
		  AND o.name = @p1`,

	triggerSource: `
		SELECT t.name AS NAME,
		       OBJECT_NAME(t.parent_id) AS RELATION_NAME,
		       t.is_disabled AS TRIGGER_INACTIVE,
		       m.definition AS SOURCE
		FROM sys.triggers t
		JOIN sys.sql_modules m ON m.object_id = t.object_id
		WHERE t.name = @p1`,

	sequence: `
		SELECT name AS NAME,
		       CAST(start_value AS BIGINT) AS INITIAL_VALUE,
		       CAST(increment AS BIGINT) AS INCREMENT
		FROM sys.sequences
		WHERE name = @p1`,

	user: `
		SELECT name AS NAME, type_desc AS PRINCIPAL_TYPE
		FROM sys.database_principals
		WHERE type IN ('S', 'U')
		  AND name = @p1`,

	routineParams: `
		SELECT p.name AS PARAMETER_NAME,
		       p.is_output AS PARAMETER_DIRECTION,
		       p.parameter_id AS PARAMETER_NUMBER,
		       ty.name AS TYPE_NAME,
		       p.max_length AS MAX_LENGTH,
		       p.precision AS FIELD_PRECISION,
		       p.scale AS FIELD_SCALE
		FROM sys.parameters p
		JOIN sys.types ty ON ty.user_type_id = p.user_type_id
		WHERE p.object_id = OBJECT_ID(@p1)
		  AND p.parameter_id > 0
		ORDER BY p.parameter_id`,
}
