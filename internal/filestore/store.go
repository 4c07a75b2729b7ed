// Package filestore defines the unified interface for the object storage
// backend that receives exported DDL scripts.
//
// All providers implement the Store interface. Callers depend only on this
// package, never on a specific provider package.
//
// Usage:
//
//	cfg := filestore.DefaultConfig("localhost:9000", "minioadmin", "minioadmin")
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	info, err := store.Put(ctx, cfg.Bucket, "exports/crm/table/USERS.sql", body)
package filestore

import (
	"context"
	"io"
	"time"
)

// Store is the single interface all export storage providers implement.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// EnsureBucket creates bucket if it does not already exist.
	EnsureBucket(ctx context.Context, bucket string) error

	// Put uploads body to key inside bucket and returns the stored
	// object's metadata. Content is written with the SQL script MIME
	// type.
	Put(ctx context.Context, bucket, key string, body io.Reader, size int64) (*ObjectInfo, error)

	// Stat returns metadata for the object at key inside bucket without
	// downloading its content.
	Stat(ctx context.Context, bucket, key string) (*ObjectInfo, error)

	// List returns the objects in bucket that match opts, most useful
	// for enumerating previous exports under a connection prefix.
	List(ctx context.Context, bucket string, opts ListOptions) ([]ObjectInfo, error)

	// PresignGetURL returns a time-limited URL that allows downloading
	// the object at key inside bucket without credentials.
	PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}
