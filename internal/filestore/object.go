package filestore

import "time"

// ContentTypeSQL is the MIME type exported DDL scripts are stored under.
const ContentTypeSQL = "application/sql"

// ObjectInfo describes a single stored export.
type ObjectInfo struct {
	// Key is the full object path within the bucket
	// (e.g. "exports/crm/table/USERS.sql").
	Key string

	// Size is the byte size of the object. -1 if unknown.
	Size int64

	// ContentType is the MIME type.
	ContentType string

	// ETag is the object's entity tag / hash, as returned by the backend.
	ETag string

	// LastModified is when the object was last written.
	LastModified time.Time
}

// ListOptions controls how List filters and paginates results.
type ListOptions struct {
	// Prefix restricts results to objects whose key starts with this
	// string. Use "" to list everything in the bucket.
	Prefix string

	// Limit caps the number of results returned. 0 means use the
	// backend default.
	Limit int
}
